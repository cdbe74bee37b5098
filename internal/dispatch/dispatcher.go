// Package dispatch implements the incremental dispatching engine: it
// tracks job shop state as operations are committed one at a time,
// computes feasible start times under machine and job constraints, and
// notifies subscribed observers after every commit.
package dispatch

import (
	"log/slog"

	"github.com/me/goshop/pkg/jobshop"
)

// Dispatcher owns a Schedule plus the derived readiness and availability
// indices. Commit is the only state-mutating entry point; every query is
// a pure function over the current indices. The dispatcher is
// single-threaded: one Commit runs to completion, including all observer
// notifications, before any other method may be called.
type Dispatcher struct {
	instance *jobshop.Instance
	schedule *jobshop.Schedule
	logger   *slog.Logger

	machineNext []int // earliest time each machine is free
	jobNext     []int // earliest time each job's next operation may start
	jobNextPos  []int // next unscheduled position per job
	scheduled   []*jobshop.ScheduledOperation // by operation id, nil when unscheduled
	currentTime int

	observers  []Observer
	singletons map[ObserverType]bool
}

// New creates a dispatcher over an empty schedule for the instance.
func New(instance *jobshop.Instance, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		instance:   instance,
		logger:     logger.With("component", "dispatcher", "instance", instance.Name),
		singletons: make(map[ObserverType]bool),
	}
	d.resetState()
	return d
}

func (d *Dispatcher) resetState() {
	d.schedule = jobshop.NewSchedule(d.instance)
	d.machineNext = make([]int, d.instance.NumMachines())
	d.jobNext = make([]int, d.instance.NumJobs())
	d.jobNextPos = make([]int, d.instance.NumJobs())
	d.scheduled = make([]*jobshop.ScheduledOperation, d.instance.NumOperations())
	d.currentTime = 0
}

// Instance returns the immutable instance being scheduled.
func (d *Dispatcher) Instance() *jobshop.Instance { return d.instance }

// Schedule returns the schedule built so far. Callers must treat it as
// read-only; only Commit mutates it.
func (d *Dispatcher) Schedule() *jobshop.Schedule { return d.schedule }

// MachineNextAvailableTime returns the earliest free time per machine.
// The returned slice is shared; callers must not modify it.
func (d *Dispatcher) MachineNextAvailableTime() []int { return d.machineNext }

// JobNextAvailableTime returns, per job, the earliest time its next
// unscheduled operation may start.
func (d *Dispatcher) JobNextAvailableTime() []int { return d.jobNext }

// CurrentTime returns the start time of the most recently committed
// operation, or 0 when nothing has been committed. It is the simulated
// "now" that progress-relative features are measured against.
func (d *Dispatcher) CurrentTime() int { return d.currentTime }

// JobNextPosition returns the position of the next unscheduled operation
// of the job, equal to the job length once the job is fully scheduled.
func (d *Dispatcher) JobNextPosition(jobID int) int { return d.jobNextPos[jobID] }

// IsScheduled reports whether the operation has been committed.
func (d *Dispatcher) IsScheduled(op *jobshop.Operation) bool {
	return d.scheduled[op.OperationID] != nil
}

// isReady reports whether op is unscheduled with its job predecessor (if
// any) already scheduled.
func (d *Dispatcher) isReady(op *jobshop.Operation) bool {
	return d.scheduled[op.OperationID] == nil && d.jobNextPos[op.JobID] == op.PositionInJob
}

// ReadyOperations returns the operations that may be committed next: one
// per incomplete job, in ascending operation id order. The slice is
// freshly materialized on every call; it is not cached across commits.
func (d *Dispatcher) ReadyOperations() []*jobshop.Operation {
	out := make([]*jobshop.Operation, 0, d.instance.NumJobs())
	for jobID, job := range d.instance.Jobs {
		if pos := d.jobNextPos[jobID]; pos < len(job) {
			out = append(out, job[pos])
		}
	}
	return out
}

// UnscheduledOperations returns every uncommitted operation in ascending
// id order.
func (d *Dispatcher) UnscheduledOperations() []*jobshop.Operation {
	var out []*jobshop.Operation
	for id, op := range d.instance.Operations() {
		if d.scheduled[id] == nil {
			out = append(out, op)
		}
	}
	return out
}

// ScheduledOperations returns every committed operation in ascending
// operation id order.
func (d *Dispatcher) ScheduledOperations() []*jobshop.ScheduledOperation {
	var out []*jobshop.ScheduledOperation
	for _, so := range d.scheduled {
		if so != nil {
			out = append(out, so)
		}
	}
	return out
}

// CompletedOperations returns the committed operations whose processing
// has finished by CurrentTime, in ascending operation id order.
func (d *Dispatcher) CompletedOperations() []*jobshop.ScheduledOperation {
	var out []*jobshop.ScheduledOperation
	for _, so := range d.scheduled {
		if so != nil && so.EndTime() <= d.currentTime {
			out = append(out, so)
		}
	}
	return out
}

// EarliestStartTime returns the feasibility floor for op: the maximum of
// its job's next available time and the earliest free time among its
// eligible machines (ties between equally early machines resolve to the
// lowest machine id). Any commit below this value fails.
func (d *Dispatcher) EarliestStartTime(op *jobshop.Operation) int {
	machineFree := d.machineNext[op.Machines[0]]
	for _, m := range op.Machines[1:] {
		if d.machineNext[m] < machineFree {
			machineFree = d.machineNext[m]
		}
	}
	return max(d.jobNext[op.JobID], machineFree)
}

// EarliestStartTimeOn returns the feasibility floor for committing op on
// a specific machine.
func (d *Dispatcher) EarliestStartTimeOn(op *jobshop.Operation, machineID int) (int, error) {
	if !op.IsEligible(machineID) {
		return 0, jobshop.NewValidationError(
			"machine %d is not eligible for operation %d (eligible: %v)",
			machineID, op.OperationID, op.Machines)
	}
	return max(d.jobNext[op.JobID], d.machineNext[machineID]), nil
}

// EarliestMachine returns the eligible machine that frees up first, ties
// broken by ascending machine id.
func (d *Dispatcher) EarliestMachine(op *jobshop.Operation) int {
	best := op.Machines[0]
	for _, m := range op.Machines[1:] {
		if d.machineNext[m] < d.machineNext[best] || (d.machineNext[m] == d.machineNext[best] && m < best) {
			best = m
		}
	}
	return best
}

// Commit schedules op on machineID at startTime. It fails with a
// ValidationError when the machine is ineligible, the operation is
// already scheduled or not yet ready, or startTime is below the
// feasibility floor. On success the schedule and derived indices are
// updated and every subscribed observer is notified in subscription
// order. Either the full transition happens or nothing changes.
func (d *Dispatcher) Commit(op *jobshop.Operation, machineID, startTime int) (*jobshop.ScheduledOperation, error) {
	if d.scheduled[op.OperationID] != nil {
		return nil, jobshop.NewValidationError("operation %d is already scheduled", op.OperationID)
	}
	if !d.isReady(op) {
		return nil, jobshop.NewValidationError(
			"operation %d is not ready: job %d is at position %d, operation is at %d",
			op.OperationID, op.JobID, d.jobNextPos[op.JobID], op.PositionInJob)
	}
	floor, err := d.EarliestStartTimeOn(op, machineID)
	if err != nil {
		return nil, err
	}
	if startTime < floor {
		return nil, jobshop.NewValidationError(
			"operation %d cannot start at %d on machine %d: earliest feasible start is %d",
			op.OperationID, startTime, machineID, floor)
	}

	so, err := jobshop.NewScheduledOperation(op, machineID, startTime)
	if err != nil {
		return nil, err
	}
	if err := d.schedule.Add(so); err != nil {
		return nil, err
	}

	d.machineNext[machineID] = so.EndTime()
	d.jobNext[op.JobID] = so.EndTime()
	d.jobNextPos[op.JobID]++
	d.scheduled[op.OperationID] = so
	d.currentTime = startTime

	d.logger.Debug("commit",
		"operation", op.OperationID,
		"machine", machineID,
		"start", startTime,
		"end", so.EndTime(),
		"scheduled", d.schedule.NumScheduled(),
	)

	for _, obs := range d.observers {
		obs.Update(so)
	}
	return so, nil
}

// Subscribe registers an observer for commit notifications. Observers
// are notified in subscription order. Subscribing a second observer of a
// singleton type fails.
func (d *Dispatcher) Subscribe(obs Observer) error {
	if obs.IsSingleton() && d.singletons[obs.Type()] {
		return jobshop.NewValidationError(
			"observer type %q is singleton and already subscribed", obs.Type())
	}
	d.observers = append(d.observers, obs)
	if obs.IsSingleton() {
		d.singletons[obs.Type()] = true
	}
	return nil
}

// Observers returns the subscribed observers in subscription order. The
// returned slice is shared; callers must not modify it.
func (d *Dispatcher) Observers() []Observer { return d.observers }

// Reset clears the schedule and every derived index back to the empty
// state, then resets every observer. It lets one engine be reused across
// scheduling episodes without reconstruction.
func (d *Dispatcher) Reset() {
	d.resetState()
	for _, obs := range d.observers {
		obs.Reset()
	}
	d.logger.Debug("reset", "observers", len(d.observers))
}

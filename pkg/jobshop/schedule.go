package jobshop

import "fmt"

// ScheduledOperation binds an operation to a chosen machine and start
// time. It is created at commit time and never mutated afterwards.
type ScheduledOperation struct {
	Operation *Operation
	MachineID int
	StartTime int
}

// NewScheduledOperation validates that machineID is eligible for op.
func NewScheduledOperation(op *Operation, machineID, startTime int) (*ScheduledOperation, error) {
	if !op.IsEligible(machineID) {
		return nil, NewValidationError(
			"machine %d is not eligible for operation %d (eligible: %v)",
			machineID, op.OperationID, op.Machines)
	}
	return &ScheduledOperation{Operation: op, MachineID: machineID, StartTime: startTime}, nil
}

// EndTime returns StartTime plus the operation duration.
func (s *ScheduledOperation) EndTime() int {
	return s.StartTime + s.Operation.Duration
}

func (s *ScheduledOperation) String() string {
	return fmt.Sprintf("S(op=%d, m=%d, t=[%d,%d))",
		s.Operation.OperationID, s.MachineID, s.StartTime, s.EndTime())
}

// Schedule holds one ordered sequence of scheduled operations per machine,
// sorted by start time and mutually non-overlapping. For every job the
// committed operations are non-overlapping in position order. The
// dispatching engine is the only writer.
type Schedule struct {
	instance   *Instance
	byMachine  [][]*ScheduledOperation
	jobLastEnd []int
	count      int
}

// NewSchedule creates an empty schedule for the instance.
func NewSchedule(instance *Instance) *Schedule {
	return &Schedule{
		instance:   instance,
		byMachine:  make([][]*ScheduledOperation, instance.NumMachines()),
		jobLastEnd: make([]int, instance.NumJobs()),
	}
}

// Instance returns the instance the schedule belongs to.
func (s *Schedule) Instance() *Instance { return s.instance }

// Add appends so to its machine's sequence. It fails when the start time
// would overlap the previous operation on the machine or the job
// predecessor's processing window.
func (s *Schedule) Add(so *ScheduledOperation) error {
	seq := s.byMachine[so.MachineID]
	if len(seq) > 0 {
		if prev := seq[len(seq)-1]; so.StartTime < prev.EndTime() {
			return NewValidationError(
				"operation %d starts at %d before machine %d frees at %d",
				so.Operation.OperationID, so.StartTime, so.MachineID, prev.EndTime())
		}
	}
	if end := s.jobLastEnd[so.Operation.JobID]; so.StartTime < end {
		return NewValidationError(
			"operation %d starts at %d before job %d predecessor finishes at %d",
			so.Operation.OperationID, so.StartTime, so.Operation.JobID, end)
	}

	s.byMachine[so.MachineID] = append(seq, so)
	s.jobLastEnd[so.Operation.JobID] = so.EndTime()
	s.count++
	return nil
}

// MachineSequence returns the committed sequence for a machine in start
// order. The returned slice is shared; callers must not modify it.
func (s *Schedule) MachineSequence(machineID int) []*ScheduledOperation {
	return s.byMachine[machineID]
}

// All returns every scheduled operation, machine-major in start order.
func (s *Schedule) All() []*ScheduledOperation {
	out := make([]*ScheduledOperation, 0, s.count)
	for _, seq := range s.byMachine {
		out = append(out, seq...)
	}
	return out
}

// Makespan returns the maximum end time over all scheduled operations, or
// 0 for an empty schedule.
func (s *Schedule) Makespan() int {
	max := 0
	for _, seq := range s.byMachine {
		if len(seq) == 0 {
			continue
		}
		if end := seq[len(seq)-1].EndTime(); end > max {
			max = end
		}
	}
	return max
}

// NumScheduled returns how many operations have been committed.
func (s *Schedule) NumScheduled() int { return s.count }

// IsComplete reports whether every operation of the instance has been
// scheduled exactly once.
func (s *Schedule) IsComplete() bool {
	return s.count == s.instance.NumOperations()
}

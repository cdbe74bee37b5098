package dispatch

import "github.com/me/goshop/pkg/jobshop"

// EarliestStartTimeObserver tracks, relative to the dispatcher's current
// time, the earliest feasible start of every unscheduled operation, the
// next free time of every machine, and the next available time of every
// job.
type EarliestStartTimeObserver struct {
	featureTables
}

// NewEarliestStartTimeObserver creates the observer. The caller
// subscribes it.
func NewEarliestStartTimeObserver(d *Dispatcher, types ...FeatureType) (*EarliestStartTimeObserver, error) {
	tables, err := newFeatureTables(d, types, AllFeatureTypes())
	if err != nil {
		return nil, err
	}
	o := &EarliestStartTimeObserver{featureTables: tables}
	o.InitializeFromState()
	return o, nil
}

func (o *EarliestStartTimeObserver) Type() ObserverType { return TypeEarliestStartTime }
func (o *EarliestStartTimeObserver) IsSingleton() bool  { return false }

func (o *EarliestStartTimeObserver) InitializeFromState() {
	d := o.dispatcher
	now := d.CurrentTime()

	if t := o.Features(FeatureOperations); t != nil {
		for _, op := range d.UnscheduledOperations() {
			t[op.OperationID] = float64(d.EarliestStartTime(op) - now)
		}
	}
	if t := o.Features(FeatureMachines); t != nil {
		for m, free := range d.MachineNextAvailableTime() {
			t[m] = float64(free - now)
		}
	}
	if t := o.Features(FeatureJobs); t != nil {
		for j, next := range d.JobNextAvailableTime() {
			t[j] = float64(next - now)
		}
	}
}

// Update recomputes every unscheduled row: a single commit can shift the
// earliest start of many operations sharing its machine or job.
func (o *EarliestStartTimeObserver) Update(*jobshop.ScheduledOperation) { o.InitializeFromState() }

func (o *EarliestStartTimeObserver) Reset() {
	o.setZero()
	o.InitializeFromState()
}

package dispatch

import "github.com/me/goshop/pkg/jobshop"

// FeatureObserver is an Observer that exposes per-domain numeric tables.
type FeatureObserver interface {
	Observer
	Features(ft FeatureType) []float64
	Tracks(ft FeatureType) bool
	TracksAll(fts []FeatureType) bool
	FeatureTypes() []FeatureType
}

// IsReadyObserver keeps a binary flag per entity: 1 when the operation is
// ready to be committed, when the machine has at least one ready eligible
// operation, or when the job's next operation is ready.
type IsReadyObserver struct {
	featureTables
}

// NewIsReadyObserver creates the observer. The caller subscribes it.
func NewIsReadyObserver(d *Dispatcher, types ...FeatureType) (*IsReadyObserver, error) {
	tables, err := newFeatureTables(d, types, AllFeatureTypes())
	if err != nil {
		return nil, err
	}
	o := &IsReadyObserver{featureTables: tables}
	o.InitializeFromState()
	return o, nil
}

func (o *IsReadyObserver) Type() ObserverType { return TypeIsReady }
func (o *IsReadyObserver) IsSingleton() bool  { return false }

func (o *IsReadyObserver) InitializeFromState() {
	o.setZero()
	for _, op := range o.dispatcher.ReadyOperations() {
		if t := o.Features(FeatureOperations); t != nil {
			t[op.OperationID] = 1
		}
		if t := o.Features(FeatureMachines); t != nil {
			for _, m := range op.Machines {
				t[m] = 1
			}
		}
		if t := o.Features(FeatureJobs); t != nil {
			t[op.JobID] = 1
		}
	}
}

// Update recomputes from scratch: one commit can make a new operation
// ready and retire others, across machines.
func (o *IsReadyObserver) Update(*jobshop.ScheduledOperation) { o.InitializeFromState() }

func (o *IsReadyObserver) Reset() { o.InitializeFromState() }

// DurationObserver tracks processing time: per operation its duration
// while unscheduled, per machine the total duration of its unscheduled
// eligible operations, per job the remaining work.
type DurationObserver struct {
	featureTables
}

// NewDurationObserver creates the observer. The caller subscribes it.
func NewDurationObserver(d *Dispatcher, types ...FeatureType) (*DurationObserver, error) {
	tables, err := newFeatureTables(d, types, AllFeatureTypes())
	if err != nil {
		return nil, err
	}
	o := &DurationObserver{featureTables: tables}
	o.InitializeFromState()
	return o, nil
}

func (o *DurationObserver) Type() ObserverType { return TypeDuration }
func (o *DurationObserver) IsSingleton() bool  { return false }

func (o *DurationObserver) InitializeFromState() {
	o.setZero()
	for _, op := range o.dispatcher.UnscheduledOperations() {
		if t := o.Features(FeatureOperations); t != nil {
			t[op.OperationID] = float64(op.Duration)
		}
		if t := o.Features(FeatureMachines); t != nil {
			for _, m := range op.Machines {
				t[m] += float64(op.Duration)
			}
		}
		if t := o.Features(FeatureJobs); t != nil {
			t[op.JobID] += float64(op.Duration)
		}
	}
}

func (o *DurationObserver) Update(so *jobshop.ScheduledOperation) {
	op := so.Operation
	if t := o.Features(FeatureOperations); t != nil {
		t[op.OperationID] = 0
	}
	if t := o.Features(FeatureMachines); t != nil {
		for _, m := range op.Machines {
			t[m] -= float64(op.Duration)
		}
	}
	if t := o.Features(FeatureJobs); t != nil {
		t[op.JobID] -= float64(op.Duration)
	}
}

func (o *DurationObserver) Reset() { o.InitializeFromState() }

// IsScheduledObserver tracks commitment: a binary flag per operation and
// committed-operation counts per machine and per job.
type IsScheduledObserver struct {
	featureTables
}

// NewIsScheduledObserver creates the observer. The caller subscribes it.
func NewIsScheduledObserver(d *Dispatcher, types ...FeatureType) (*IsScheduledObserver, error) {
	tables, err := newFeatureTables(d, types, AllFeatureTypes())
	if err != nil {
		return nil, err
	}
	o := &IsScheduledObserver{featureTables: tables}
	o.InitializeFromState()
	return o, nil
}

func (o *IsScheduledObserver) Type() ObserverType { return TypeIsScheduled }
func (o *IsScheduledObserver) IsSingleton() bool  { return false }

func (o *IsScheduledObserver) InitializeFromState() {
	o.setZero()
	for _, so := range o.dispatcher.ScheduledOperations() {
		if t := o.Features(FeatureOperations); t != nil {
			t[so.Operation.OperationID] = 1
		}
		if t := o.Features(FeatureMachines); t != nil {
			t[so.MachineID]++
		}
		if t := o.Features(FeatureJobs); t != nil {
			t[so.Operation.JobID]++
		}
	}
}

func (o *IsScheduledObserver) Update(so *jobshop.ScheduledOperation) {
	if t := o.Features(FeatureOperations); t != nil {
		t[so.Operation.OperationID] = 1
	}
	if t := o.Features(FeatureMachines); t != nil {
		t[so.MachineID]++
	}
	if t := o.Features(FeatureJobs); t != nil {
		t[so.Operation.JobID]++
	}
}

func (o *IsScheduledObserver) Reset() { o.InitializeFromState() }

// PositionInJobObserver tracks per operation its fixed position within
// its job and per job the position of its next unscheduled operation.
// Machine tables are not meaningful for positions and are unsupported.
type PositionInJobObserver struct {
	featureTables
}

// NewPositionInJobObserver creates the observer. The caller subscribes it.
func NewPositionInJobObserver(d *Dispatcher, types ...FeatureType) (*PositionInJobObserver, error) {
	tables, err := newFeatureTables(d, types, []FeatureType{FeatureOperations, FeatureJobs})
	if err != nil {
		return nil, err
	}
	o := &PositionInJobObserver{featureTables: tables}
	o.InitializeFromState()
	return o, nil
}

func (o *PositionInJobObserver) Type() ObserverType { return TypePositionInJob }
func (o *PositionInJobObserver) IsSingleton() bool  { return false }

func (o *PositionInJobObserver) InitializeFromState() {
	o.setZero()
	if t := o.Features(FeatureOperations); t != nil {
		for _, op := range o.dispatcher.Instance().Operations() {
			t[op.OperationID] = float64(op.PositionInJob)
		}
	}
	if t := o.Features(FeatureJobs); t != nil {
		for jobID := range t {
			t[jobID] = float64(o.dispatcher.JobNextPosition(jobID))
		}
	}
}

func (o *PositionInJobObserver) Update(so *jobshop.ScheduledOperation) {
	if t := o.Features(FeatureJobs); t != nil {
		jobID := so.Operation.JobID
		t[jobID] = float64(o.dispatcher.JobNextPosition(jobID))
	}
}

func (o *PositionInJobObserver) Reset() { o.InitializeFromState() }

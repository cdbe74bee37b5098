package dispatch

import "github.com/me/goshop/pkg/jobshop"

// RemainingOperationsObserver counts the unscheduled operations per
// machine and per job via decrementing counters. Operation tables are
// unsupported: a single operation has no meaningful remaining count.
type RemainingOperationsObserver struct {
	featureTables
}

// NewRemainingOperationsObserver creates the observer. The caller
// subscribes it.
func NewRemainingOperationsObserver(d *Dispatcher, types ...FeatureType) (*RemainingOperationsObserver, error) {
	tables, err := newFeatureTables(d, types, []FeatureType{FeatureMachines, FeatureJobs})
	if err != nil {
		return nil, err
	}
	o := &RemainingOperationsObserver{featureTables: tables}
	o.InitializeFromState()
	return o, nil
}

func (o *RemainingOperationsObserver) Type() ObserverType { return TypeRemainingOperations }
func (o *RemainingOperationsObserver) IsSingleton() bool  { return false }

func (o *RemainingOperationsObserver) InitializeFromState() {
	o.setZero()
	for _, op := range o.dispatcher.UnscheduledOperations() {
		if t := o.Features(FeatureMachines); t != nil {
			for _, m := range op.Machines {
				t[m]++
			}
		}
		if t := o.Features(FeatureJobs); t != nil {
			t[op.JobID]++
		}
	}
}

func (o *RemainingOperationsObserver) Update(so *jobshop.ScheduledOperation) {
	if t := o.Features(FeatureMachines); t != nil {
		for _, m := range so.Operation.Machines {
			t[m]--
		}
	}
	if t := o.Features(FeatureJobs); t != nil {
		t[so.Operation.JobID]--
	}
}

func (o *RemainingOperationsObserver) Reset() { o.InitializeFromState() }

// IsCompletedObserver keeps a binary flag per entity: 1 for operations
// whose processing has finished by the current time, and for machines and
// jobs with no unscheduled operations left. Machine and job flags flip
// exactly when the internal remaining counters reach zero, which matches
// a full scan of the unscheduled set by construction.
type IsCompletedObserver struct {
	featureTables
	remainingPerMachine []int
	remainingPerJob     []int
}

// NewIsCompletedObserver creates the observer. The caller subscribes it.
func NewIsCompletedObserver(d *Dispatcher, types ...FeatureType) (*IsCompletedObserver, error) {
	tables, err := newFeatureTables(d, types, AllFeatureTypes())
	if err != nil {
		return nil, err
	}
	o := &IsCompletedObserver{
		featureTables:       tables,
		remainingPerMachine: make([]int, d.Instance().NumMachines()),
		remainingPerJob:     make([]int, d.Instance().NumJobs()),
	}
	o.InitializeFromState()
	return o, nil
}

func (o *IsCompletedObserver) Type() ObserverType { return TypeIsCompleted }
func (o *IsCompletedObserver) IsSingleton() bool  { return false }

func (o *IsCompletedObserver) InitializeFromState() {
	o.setZero()
	o.initializeCounters()

	if t := o.Features(FeatureOperations); t != nil {
		for _, so := range o.dispatcher.CompletedOperations() {
			t[so.Operation.OperationID] = 1
		}
	}
	if t := o.Features(FeatureMachines); t != nil {
		for m, remaining := range o.remainingPerMachine {
			if remaining == 0 {
				t[m] = 1
			}
		}
	}
	if t := o.Features(FeatureJobs); t != nil {
		for j, remaining := range o.remainingPerJob {
			if remaining == 0 {
				t[j] = 1
			}
		}
	}
}

// initializeCounters copies an already-subscribed remaining-operations
// observer covering our feature set when one exists; its absence is a
// normal condition and falls back to a scan of the unscheduled set.
func (o *IsCompletedObserver) initializeCounters() {
	needed := o.FeatureTypes()
	reused := FindObserver(o.dispatcher, TypeRemainingOperations, func(obs Observer) bool {
		fo, ok := obs.(FeatureObserver)
		if !ok {
			return false
		}
		for _, ft := range needed {
			if ft == FeatureOperations {
				continue
			}
			if !fo.Tracks(ft) {
				return false
			}
		}
		return true
	})
	if fo, ok := reused.(FeatureObserver); ok {
		if t := fo.Features(FeatureMachines); t != nil {
			for m, v := range t {
				o.remainingPerMachine[m] = int(v)
			}
		}
		if t := fo.Features(FeatureJobs); t != nil {
			for j, v := range t {
				o.remainingPerJob[j] = int(v)
			}
		}
		return
	}

	for i := range o.remainingPerMachine {
		o.remainingPerMachine[i] = 0
	}
	for i := range o.remainingPerJob {
		o.remainingPerJob[i] = 0
	}
	for _, op := range o.dispatcher.UnscheduledOperations() {
		for _, m := range op.Machines {
			o.remainingPerMachine[m]++
		}
		o.remainingPerJob[op.JobID]++
	}
}

func (o *IsCompletedObserver) Update(so *jobshop.ScheduledOperation) {
	if t := o.Features(FeatureOperations); t != nil {
		for _, completed := range o.dispatcher.CompletedOperations() {
			t[completed.Operation.OperationID] = 1
		}
	}
	if t := o.Features(FeatureMachines); t != nil {
		for _, m := range so.Operation.Machines {
			o.remainingPerMachine[m]--
			if o.remainingPerMachine[m] == 0 {
				t[m] = 1
			}
		}
	}
	if t := o.Features(FeatureJobs); t != nil {
		jobID := so.Operation.JobID
		o.remainingPerJob[jobID]--
		if o.remainingPerJob[jobID] == 0 {
			t[jobID] = 1
		}
	}
}

func (o *IsCompletedObserver) Reset() { o.InitializeFromState() }

package graph

import (
	"github.com/me/goshop/internal/dispatch"
	"github.com/me/goshop/pkg/jobshop"
)

// ResidualConfig controls which node kinds the residual updater prunes
// beyond completed operation nodes.
type ResidualConfig struct {
	RemoveCompletedMachineNodes bool
	RemoveCompletedJobNodes     bool
}

// DefaultResidualConfig prunes both machine and job nodes.
func DefaultResidualConfig() ResidualConfig {
	return ResidualConfig{RemoveCompletedMachineNodes: true, RemoveCompletedJobNodes: true}
}

// ResidualUpdater is a dispatcher observer that keeps a graph residual:
// after every commit it removes the nodes of completed operations and,
// per configuration, the nodes of machines and jobs with no work left.
// The updater is the graph's only mutator.
type ResidualUpdater struct {
	dispatcher *dispatch.Dispatcher
	graph      *Graph
	config     ResidualConfig
	completed  *dispatch.IsCompletedObserver
}

// NewResidualUpdater creates the updater. When at least one removal mode
// is configured it obtains an is-completed observer covering the
// configured domains through the observer lookup helper, creating and
// subscribing one if none exists; that observer is therefore notified
// before the updater itself once the caller subscribes the updater.
func NewResidualUpdater(d *dispatch.Dispatcher, g *Graph, cfg ResidualConfig) (*ResidualUpdater, error) {
	u := &ResidualUpdater{dispatcher: d, graph: g, config: cfg}

	var needed []dispatch.FeatureType
	if cfg.RemoveCompletedMachineNodes {
		needed = append(needed, dispatch.FeatureMachines)
	}
	if cfg.RemoveCompletedJobNodes {
		needed = append(needed, dispatch.FeatureJobs)
	}
	if len(needed) == 0 {
		return u, nil
	}

	obs, err := dispatch.CreateOrGetObserver(d, dispatch.TypeIsCompleted,
		func(obs dispatch.Observer) bool {
			fo, ok := obs.(dispatch.FeatureObserver)
			return ok && fo.TracksAll(needed)
		},
		func() (dispatch.Observer, error) {
			return dispatch.NewIsCompletedObserver(d, needed...)
		},
	)
	if err != nil {
		return nil, err
	}
	u.completed = obs.(*dispatch.IsCompletedObserver)
	return u, nil
}

// Graph returns the maintained graph.
func (u *ResidualUpdater) Graph() *Graph { return u.graph }

// CompletionObserver returns the is-completed observer driving machine
// and job pruning. It fails when neither removal mode was configured.
func (u *ResidualUpdater) CompletionObserver() (*dispatch.IsCompletedObserver, error) {
	if u.completed == nil {
		return nil, &jobshop.UninitializedAttributeError{
			Attribute: "CompletionObserver",
			Hint:      "enable RemoveCompletedMachineNodes or RemoveCompletedJobNodes",
		}
	}
	return u.completed, nil
}

func (u *ResidualUpdater) Type() dispatch.ObserverType { return dispatch.TypeResidualGraph }
func (u *ResidualUpdater) IsSingleton() bool           { return false }

func (u *ResidualUpdater) InitializeFromState() {
	u.graph.RestoreAll()
	u.prune()
}

// Update removes the nodes of all newly completed operations, then any
// machine and job nodes whose completion flag flipped. Node removal is
// idempotent, so re-seeing a completed entity is harmless.
func (u *ResidualUpdater) Update(*jobshop.ScheduledOperation) { u.prune() }

func (u *ResidualUpdater) Reset() {
	u.graph.RestoreAll()
}

func (u *ResidualUpdater) prune() {
	for _, so := range u.dispatcher.CompletedOperations() {
		if node := u.graph.OperationNode(so.Operation.OperationID); !u.graph.IsRemoved(node) {
			u.graph.RemoveNode(node)
		}
	}

	if u.config.RemoveCompletedMachineNodes && u.graph.HasMachineNodes() {
		flags := u.completed.Features(dispatch.FeatureMachines)
		for machineID, done := range flags {
			if done != 1 {
				continue
			}
			if node := u.graph.MachineNode(machineID); !u.graph.IsRemoved(node) {
				u.graph.RemoveNode(node)
			}
		}
	}

	if u.config.RemoveCompletedJobNodes && u.graph.HasJobNodes() {
		flags := u.completed.Features(dispatch.FeatureJobs)
		for jobID, done := range flags {
			if done != 1 {
				continue
			}
			if node := u.graph.JobNode(jobID); !u.graph.IsRemoved(node) {
				u.graph.RemoveNode(node)
			}
		}
	}
}

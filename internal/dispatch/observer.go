package dispatch

import "github.com/me/goshop/pkg/jobshop"

// ObserverType tags a concrete observer implementation. Subscription
// bookkeeping and observer lookup key on the tag instead of runtime type
// inspection.
type ObserverType string

const (
	TypeIsReady             ObserverType = "is_ready"
	TypeEarliestStartTime   ObserverType = "earliest_start_time"
	TypeDuration            ObserverType = "duration"
	TypeIsScheduled         ObserverType = "is_scheduled"
	TypePositionInJob       ObserverType = "position_in_job"
	TypeRemainingOperations ObserverType = "remaining_operations"
	TypeIsCompleted         ObserverType = "is_completed"
	TypeResidualGraph       ObserverType = "residual_graph"
)

// Observer receives a notification after every commit and maintains its
// own derived state (a feature table, a graph). Observers must not
// mutate engine state; they see a fully updated schedule and index set
// when notified.
type Observer interface {
	// Type returns the concrete observer tag.
	Type() ObserverType

	// IsSingleton reports whether at most one observer of this type may
	// subscribe to a dispatcher.
	IsSingleton() bool

	// InitializeFromState rebuilds the derived state from the current
	// dispatcher state.
	InitializeFromState()

	// Update applies the incremental delta for a just-committed
	// operation. A correct but slow implementation may simply call
	// InitializeFromState.
	Update(so *jobshop.ScheduledOperation)

	// Reset returns the derived state to what a fresh observer over an
	// empty schedule would hold.
	Reset()
}

// FindObserver returns the first subscribed observer with the given tag
// satisfying cond, or nil. A nil cond matches any observer of the tag.
func FindObserver(d *Dispatcher, tag ObserverType, cond func(Observer) bool) Observer {
	for _, obs := range d.Observers() {
		if obs.Type() != tag {
			continue
		}
		if cond == nil || cond(obs) {
			return obs
		}
	}
	return nil
}

// CreateOrGetObserver returns a subscribed observer matching tag and
// cond, creating and subscribing one via create when none exists. It
// lets observers reuse each other's derived state instead of
// recomputing it.
func CreateOrGetObserver(d *Dispatcher, tag ObserverType, cond func(Observer) bool, create func() (Observer, error)) (Observer, error) {
	if obs := FindObserver(d, tag, cond); obs != nil {
		return obs, nil
	}
	obs, err := create()
	if err != nil {
		return nil, err
	}
	if err := d.Subscribe(obs); err != nil {
		return nil, err
	}
	return obs, nil
}

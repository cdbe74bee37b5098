package dispatch

import "github.com/me/goshop/pkg/jobshop"

// NewFeatureObserver constructs a feature observer by tag. The caller
// subscribes the returned observer. Unknown tags and unsupported feature
// types fail with a ValidationError.
func NewFeatureObserver(d *Dispatcher, tag ObserverType, types ...FeatureType) (FeatureObserver, error) {
	switch tag {
	case TypeIsReady:
		return NewIsReadyObserver(d, types...)
	case TypeEarliestStartTime:
		return NewEarliestStartTimeObserver(d, types...)
	case TypeDuration:
		return NewDurationObserver(d, types...)
	case TypeIsScheduled:
		return NewIsScheduledObserver(d, types...)
	case TypePositionInJob:
		return NewPositionInJobObserver(d, types...)
	case TypeRemainingOperations:
		return NewRemainingOperationsObserver(d, types...)
	case TypeIsCompleted:
		return NewIsCompletedObserver(d, types...)
	default:
		return nil, jobshop.NewValidationError("unknown feature observer type %q", tag)
	}
}

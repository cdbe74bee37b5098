package dispatch

import "github.com/me/goshop/pkg/jobshop"

// FeatureType names a tracked entity domain. Each feature observer keeps
// one numeric table per tracked domain, indexed by the entity's dense id.
type FeatureType string

const (
	FeatureOperations FeatureType = "operations"
	FeatureMachines   FeatureType = "machines"
	FeatureJobs       FeatureType = "jobs"
)

// AllFeatureTypes returns every feature type in canonical order.
func AllFeatureTypes() []FeatureType {
	return []FeatureType{FeatureOperations, FeatureMachines, FeatureJobs}
}

// featureTables is the shared core of the concrete feature observers: a
// dispatcher reference plus one float64 row vector per tracked domain.
type featureTables struct {
	dispatcher *Dispatcher
	tables     map[FeatureType][]float64
}

// newFeatureTables allocates zeroed tables for the requested feature
// types, validating them against the observer's supported set. An empty
// request means all supported types.
func newFeatureTables(d *Dispatcher, requested, supported []FeatureType) (featureTables, error) {
	if len(requested) == 0 {
		requested = supported
	}
	sizes := map[FeatureType]int{
		FeatureOperations: d.Instance().NumOperations(),
		FeatureMachines:   d.Instance().NumMachines(),
		FeatureJobs:       d.Instance().NumJobs(),
	}

	t := featureTables{dispatcher: d, tables: make(map[FeatureType][]float64, len(requested))}
	for _, ft := range requested {
		ok := false
		for _, s := range supported {
			if ft == s {
				ok = true
				break
			}
		}
		if !ok {
			return featureTables{}, jobshop.NewValidationError("feature type %q is not supported", ft)
		}
		t.tables[ft] = make([]float64, sizes[ft])
	}
	return t, nil
}

// Features returns the table for the given feature type, or nil when the
// observer does not track it. The slice is live observer state; callers
// must treat it as read-only.
func (t *featureTables) Features(ft FeatureType) []float64 { return t.tables[ft] }

// Tracks reports whether the observer maintains a table for ft.
func (t *featureTables) Tracks(ft FeatureType) bool {
	_, ok := t.tables[ft]
	return ok
}

// TracksAll reports whether every given feature type is tracked.
func (t *featureTables) TracksAll(fts []FeatureType) bool {
	for _, ft := range fts {
		if !t.Tracks(ft) {
			return false
		}
	}
	return true
}

// FeatureTypes returns the tracked feature types in canonical order.
func (t *featureTables) FeatureTypes() []FeatureType {
	var out []FeatureType
	for _, ft := range AllFeatureTypes() {
		if t.Tracks(ft) {
			out = append(out, ft)
		}
	}
	return out
}

func (t *featureTables) setZero() {
	for _, table := range t.tables {
		for i := range table {
			table[i] = 0
		}
	}
}

package dispatch

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/me/goshop/pkg/jobshop"
)

func TestNewFeatureObserver_Factory(t *testing.T) {
	d := New(twoByTwo(t), testLogger())

	tags := []ObserverType{
		TypeIsReady, TypeEarliestStartTime, TypeDuration,
		TypeIsScheduled, TypeRemainingOperations, TypeIsCompleted,
	}
	for _, tag := range tags {
		obs, err := NewFeatureObserver(d, tag, FeatureMachines, FeatureJobs)
		if err != nil {
			t.Fatalf("NewFeatureObserver(%s): %v", tag, err)
		}
		if obs.Type() != tag {
			t.Errorf("observer type = %s, want %s", obs.Type(), tag)
		}
	}

	_, err := NewFeatureObserver(d, ObserverType("no_such_observer"))
	var verr *jobshop.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("unknown tag = %v, want ValidationError", err)
	}
}

func TestNewFeatureObserver_UnsupportedFeatureType(t *testing.T) {
	d := New(twoByTwo(t), testLogger())

	// Remaining-operation counts are machine/job features only.
	_, err := NewRemainingOperationsObserver(d, FeatureOperations)
	var verr *jobshop.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("NewRemainingOperationsObserver(operations) = %v, want ValidationError", err)
	}
}

func TestEarliestStartTimeObserver_Values(t *testing.T) {
	inst := twoByTwo(t)
	d := New(inst, testLogger())
	obs, err := NewEarliestStartTimeObserver(d)
	if err != nil {
		t.Fatalf("NewEarliestStartTimeObserver: %v", err)
	}
	if err := d.Subscribe(obs); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	mustCommit(t, d, inst.Jobs[0][0], 0, 0)
	mustCommit(t, d, inst.Jobs[1][0], 1, 0)

	// current time 0: job0-op1 can start at 4, job1-op1 at 4.
	ops := obs.Features(FeatureOperations)
	if ops[1] != 4 || ops[3] != 4 {
		t.Errorf("operation features = %v, want 4 at rows 1 and 3", ops)
	}
	machines := obs.Features(FeatureMachines)
	if machines[0] != 3 || machines[1] != 4 {
		t.Errorf("machine features = %v, want [3 4]", machines)
	}
	jobs := obs.Features(FeatureJobs)
	if jobs[0] != 3 || jobs[1] != 4 {
		t.Errorf("job features = %v, want [3 4]", jobs)
	}
}

func TestIsCompletedObserver_ReusesRemainingCounters(t *testing.T) {
	inst := twoByTwo(t)
	d := New(inst, testLogger())

	remaining, err := NewRemainingOperationsObserver(d, FeatureMachines, FeatureJobs)
	if err != nil {
		t.Fatalf("NewRemainingOperationsObserver: %v", err)
	}
	if err := d.Subscribe(remaining); err != nil {
		t.Fatalf("Subscribe remaining: %v", err)
	}

	mustCommit(t, d, inst.Jobs[0][0], 0, 0)

	// Constructed mid-episode: counters must come from the subscribed
	// remaining-operations observer, not a stale full count.
	completed, err := NewIsCompletedObserver(d, FeatureMachines, FeatureJobs)
	if err != nil {
		t.Fatalf("NewIsCompletedObserver: %v", err)
	}
	if err := d.Subscribe(completed); err != nil {
		t.Fatalf("Subscribe completed: %v", err)
	}

	mustCommit(t, d, inst.Jobs[1][0], 1, 0)
	mustCommit(t, d, inst.Jobs[0][1], 1, 4)
	mustCommit(t, d, inst.Jobs[1][1], 0, 4)

	for _, ft := range []FeatureType{FeatureMachines, FeatureJobs} {
		for i, v := range completed.Features(ft) {
			if v != 1 {
				t.Errorf("%s[%d] = %v after full schedule, want 1", ft, i, v)
			}
		}
	}
}

// TestFeatureObservers_IncrementalMatchesRecompute commits randomized
// feasible sequences and checks after every step that incrementally
// maintained tables equal tables rebuilt from scratch.
func TestFeatureObservers_IncrementalMatchesRecompute(t *testing.T) {
	inst := threeByThree(t)

	for seed := int64(0); seed < 5; seed++ {
		d := New(inst, testLogger())
		rng := rand.New(rand.NewSource(seed))

		var observers []FeatureObserver
		for _, tag := range []ObserverType{
			TypeIsReady, TypeEarliestStartTime, TypeDuration,
			TypeIsScheduled, TypePositionInJob, TypeRemainingOperations,
			TypeIsCompleted,
		} {
			var obs FeatureObserver
			var err error
			if tag == TypeRemainingOperations || tag == TypeIsCompleted {
				// Completion flags for single operations depend on the
				// simulated "now", which moves backwards when a later
				// commit starts earlier; only the counter-driven machine
				// and job flags are guaranteed recompute-consistent.
				obs, err = NewFeatureObserver(d, tag, FeatureMachines, FeatureJobs)
			} else if tag == TypePositionInJob {
				obs, err = NewFeatureObserver(d, tag, FeatureOperations, FeatureJobs)
			} else {
				obs, err = NewFeatureObserver(d, tag)
			}
			if err != nil {
				t.Fatalf("seed %d: NewFeatureObserver(%s): %v", seed, tag, err)
			}
			if err := d.Subscribe(obs); err != nil {
				t.Fatalf("seed %d: Subscribe(%s): %v", seed, tag, err)
			}
			observers = append(observers, obs)
		}

		for !d.Schedule().IsComplete() {
			ready := d.ReadyOperations()
			op := ready[rng.Intn(len(ready))]
			machine := d.EarliestMachine(op)
			start, err := d.EarliestStartTimeOn(op, machine)
			if err != nil {
				t.Fatalf("seed %d: EarliestStartTimeOn: %v", seed, err)
			}
			mustCommit(t, d, op, machine, start)

			for _, obs := range observers {
				snapshot := make(map[FeatureType][]float64)
				for _, ft := range obs.FeatureTypes() {
					snapshot[ft] = append([]float64(nil), obs.Features(ft)...)
				}

				obs.InitializeFromState()

				for ft, want := range snapshot {
					got := obs.Features(ft)
					for i := range want {
						if got[i] != want[i] {
							t.Fatalf("seed %d: %s %s[%d]: incremental %v != recomputed %v after %d commits",
								seed, obs.Type(), ft, i, want[i], got[i], d.Schedule().NumScheduled())
						}
					}
					// Restore so the next step continues incrementally.
					copy(got, want)
				}
			}
		}
	}
}

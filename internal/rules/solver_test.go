package rules

import (
	"io"
	"log/slog"
	"testing"

	"github.com/me/goshop/internal/dispatch"
	"github.com/me/goshop/pkg/jobshop"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// twoByTwo builds job0 = [(m0, 3), (m1, 2)], job1 = [(m1, 4), (m0, 1)].
func twoByTwo(t *testing.T) *jobshop.Instance {
	t.Helper()
	inst, err := jobshop.FromMatrices("2x2",
		[][]int{{3, 2}, {4, 1}},
		[][][]int{{{0}, {1}}, {{1}, {0}}},
		jobshop.Metadata{},
	)
	if err != nil {
		t.Fatalf("FromMatrices: %v", err)
	}
	return inst
}

func TestSolver_CompletesWithEveryBuiltinRule(t *testing.T) {
	inst := twoByTwo(t)

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			rule, err := ByName(name)
			if err != nil {
				t.Fatalf("ByName(%s): %v", name, err)
			}
			sched, res, err := NewSolver(rule, testLogger()).Solve(inst)
			if err != nil {
				t.Fatalf("Solve: %v", err)
			}
			if !sched.IsComplete() {
				t.Error("schedule incomplete")
			}
			if res.Steps != inst.NumOperations() {
				t.Errorf("Steps = %d, want %d", res.Steps, inst.NumOperations())
			}
			if res.Makespan != sched.Makespan() || res.Makespan < 6 {
				t.Errorf("Makespan = %d, want schedule makespan >= 6", res.Makespan)
			}
		})
	}
}

func TestSolver_ESTReachesOptimum(t *testing.T) {
	// EST commits op0 and op2 at t=0, then both job tails at t=4: the
	// optimal makespan of 6 for this instance.
	sched, res, err := NewSolver(EST(), testLogger()).Solve(twoByTwo(t))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Makespan != 6 {
		t.Errorf("EST makespan = %d, want 6", res.Makespan)
	}
	for m := 0; m < 2; m++ {
		seq := sched.MachineSequence(m)
		for i := 1; i < len(seq); i++ {
			if seq[i].StartTime < seq[i-1].EndTime() {
				t.Errorf("machine %d overlap: %v then %v", m, seq[i-1], seq[i])
			}
		}
	}
}

func TestByName_Unknown(t *testing.T) {
	if _, err := ByName("simulated_annealing"); err == nil {
		t.Fatal("ByName accepted an unknown rule")
	}
}

func TestSolver_RunPreservesObservers(t *testing.T) {
	inst := twoByTwo(t)
	d := dispatch.New(inst, testLogger())

	obs, err := dispatch.NewIsCompletedObserver(d, dispatch.FeatureJobs)
	if err != nil {
		t.Fatalf("NewIsCompletedObserver: %v", err)
	}
	if err := d.Subscribe(obs); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	if err := NewSolver(SPT(), testLogger()).Run(d); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for jobID, v := range obs.Features(dispatch.FeatureJobs) {
		if v != 1 {
			t.Errorf("job %d completion flag = %v after full run, want 1", jobID, v)
		}
	}
}

func TestExprRule_MatchesSPT(t *testing.T) {
	inst := twoByTwo(t)

	expr, err := NewExprRule("js-spt", "op.duration")
	if err != nil {
		t.Fatalf("NewExprRule: %v", err)
	}

	_, wantRes, err := NewSolver(SPT(), testLogger()).Solve(inst)
	if err != nil {
		t.Fatalf("Solve(spt): %v", err)
	}
	_, gotRes, err := NewSolver(expr, testLogger()).Solve(inst)
	if err != nil {
		t.Fatalf("Solve(expr): %v", err)
	}
	if gotRes.Makespan != wantRes.Makespan {
		t.Errorf("expression makespan = %d, SPT makespan = %d", gotRes.Makespan, wantRes.Makespan)
	}
}

func TestExprRule_UsesDispatcherState(t *testing.T) {
	expr, err := NewExprRule("js-est", "state.earliestStart - state.currentTime")
	if err != nil {
		t.Fatalf("NewExprRule: %v", err)
	}
	sched, _, err := NewSolver(expr, testLogger()).Solve(twoByTwo(t))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !sched.IsComplete() {
		t.Error("schedule incomplete")
	}
}

func TestNewExprRule_CompileError(t *testing.T) {
	if _, err := NewExprRule("bad", "op.duration +"); err == nil {
		t.Fatal("NewExprRule accepted a syntax error")
	}
	if _, err := NewExprRule("empty", ""); err == nil {
		t.Fatal("NewExprRule accepted an empty expression")
	}
}

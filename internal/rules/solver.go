package rules

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/me/goshop/internal/dispatch"
	"github.com/me/goshop/pkg/jobshop"
)

// Result summarizes one solver run.
type Result struct {
	Rule     string        `json:"rule"`
	Makespan int           `json:"makespan"`
	Steps    int           `json:"steps"`
	Elapsed  time.Duration `json:"elapsed"`
}

// Solver drives a dispatching rule over an engine until the schedule is
// complete. The solver never searches; it commits one operation per
// step at its earliest feasible start on the earliest eligible machine.
type Solver struct {
	rule   Rule
	logger *slog.Logger
}

// NewSolver creates a solver for the rule.
func NewSolver(rule Rule, logger *slog.Logger) *Solver {
	return &Solver{rule: rule, logger: logger.With("component", "solver", "rule", rule.Name())}
}

// Solve builds a complete schedule for the instance and returns it with
// a run summary.
func (s *Solver) Solve(instance *jobshop.Instance) (*jobshop.Schedule, Result, error) {
	d := dispatch.New(instance, s.logger)
	start := time.Now()
	if err := s.Run(d); err != nil {
		return nil, Result{}, err
	}
	res := s.resultOf(d)
	res.Elapsed = time.Since(start)
	return d.Schedule(), res, nil
}

// Run drives an existing dispatcher to completion, preserving whatever
// observers and partial schedule it already carries.
func (s *Solver) Run(d *dispatch.Dispatcher) error {
	start := time.Now()
	steps := 0
	for !d.Schedule().IsComplete() {
		op, err := s.pick(d)
		if err != nil {
			return err
		}
		machine := d.EarliestMachine(op)
		floor, err := d.EarliestStartTimeOn(op, machine)
		if err != nil {
			return err
		}
		if _, err := d.Commit(op, machine, floor); err != nil {
			return fmt.Errorf("step %d: %w", steps, err)
		}
		steps++
	}
	s.logger.Debug("solved",
		"makespan", d.Schedule().Makespan(),
		"steps", steps,
		"elapsed", time.Since(start).String(),
	)
	return nil
}

// pick scores the ready operations and returns the lowest, ties broken
// by ascending operation id (ReadyOperations order).
func (s *Solver) pick(d *dispatch.Dispatcher) (*jobshop.Operation, error) {
	ready := d.ReadyOperations()
	if len(ready) == 0 {
		return nil, jobshop.NewValidationError("no ready operations on an incomplete schedule")
	}

	best := ready[0]
	bestScore, err := s.rule.Score(d, best)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", s.rule.Name(), err)
	}
	for _, op := range ready[1:] {
		score, err := s.rule.Score(d, op)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", s.rule.Name(), err)
		}
		if score < bestScore {
			best, bestScore = op, score
		}
	}
	return best, nil
}

func (s *Solver) resultOf(d *dispatch.Dispatcher) Result {
	return Result{
		Rule:     s.rule.Name(),
		Makespan: d.Schedule().Makespan(),
		Steps:    d.Schedule().NumScheduled(),
	}
}

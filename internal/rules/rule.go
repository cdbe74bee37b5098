// Package rules implements dispatching policies on top of the engine:
// built-in priority rules, a JavaScript expression rule, and the solver
// loop that drives a rule until the schedule completes.
package rules

import (
	"github.com/me/goshop/internal/dispatch"
	"github.com/me/goshop/pkg/jobshop"
)

// Rule scores a ready operation; the solver commits the lowest score,
// ties broken by ascending operation id. Scores may consult the full
// dispatcher state but must not mutate it.
type Rule interface {
	Name() string
	Score(d *dispatch.Dispatcher, op *jobshop.Operation) (float64, error)
}

// funcRule adapts a plain scoring function.
type funcRule struct {
	name  string
	score func(d *dispatch.Dispatcher, op *jobshop.Operation) float64
}

func (r funcRule) Name() string { return r.name }

func (r funcRule) Score(d *dispatch.Dispatcher, op *jobshop.Operation) (float64, error) {
	return r.score(d, op), nil
}

// FIFO commits the ready operation with the lowest id.
func FIFO() Rule {
	return funcRule{name: "fifo", score: func(_ *dispatch.Dispatcher, op *jobshop.Operation) float64 {
		return float64(op.OperationID)
	}}
}

// SPT commits the ready operation with the shortest processing time.
func SPT() Rule {
	return funcRule{name: "spt", score: func(_ *dispatch.Dispatcher, op *jobshop.Operation) float64 {
		return float64(op.Duration)
	}}
}

// LPT commits the ready operation with the longest processing time.
func LPT() Rule {
	return funcRule{name: "lpt", score: func(_ *dispatch.Dispatcher, op *jobshop.Operation) float64 {
		return -float64(op.Duration)
	}}
}

// MWKR commits the operation of the job with the most work remaining.
func MWKR() Rule {
	return funcRule{name: "mwkr", score: func(d *dispatch.Dispatcher, op *jobshop.Operation) float64 {
		remaining := 0
		for _, jobOp := range d.Instance().Jobs[op.JobID] {
			if !d.IsScheduled(jobOp) {
				remaining += jobOp.Duration
			}
		}
		return -float64(remaining)
	}}
}

// EST commits the operation with the earliest feasible start time.
func EST() Rule {
	return funcRule{name: "est", score: func(d *dispatch.Dispatcher, op *jobshop.Operation) float64 {
		return float64(d.EarliestStartTime(op))
	}}
}

// ByName returns a built-in rule, or a ValidationError for an unknown
// name.
func ByName(name string) (Rule, error) {
	switch name {
	case "fifo":
		return FIFO(), nil
	case "spt":
		return SPT(), nil
	case "lpt":
		return LPT(), nil
	case "mwkr":
		return MWKR(), nil
	case "est":
		return EST(), nil
	default:
		return nil, jobshop.NewValidationError("unknown dispatching rule %q", name)
	}
}

// Names returns the built-in rule names.
func Names() []string {
	return []string{"fifo", "spt", "lpt", "mwkr", "est"}
}

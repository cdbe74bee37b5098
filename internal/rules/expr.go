package rules

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/me/goshop/internal/dispatch"
	"github.com/me/goshop/pkg/jobshop"
)

// ExprRule scores ready operations with a user-supplied JavaScript
// expression. The expression sees two objects:
//
//	op    — {id, jobId, position, duration, machines}
//	state — {currentTime, earliestStart, jobNextAvailable,
//	         machineNextAvailable}
//
// and must evaluate to a number; the lowest score is committed first.
// Example: "op.duration" reproduces the SPT rule.
type ExprRule struct {
	name string
	expr string
	prog *goja.Program
	vm   *goja.Runtime
}

// NewExprRule compiles the expression. Compilation errors surface here,
// not at scoring time.
func NewExprRule(name, expr string) (*ExprRule, error) {
	if expr == "" {
		return nil, jobshop.NewValidationError("empty rule expression")
	}
	prog, err := goja.Compile(name, expr, true)
	if err != nil {
		return nil, fmt.Errorf("compile rule expression: %w", err)
	}
	return &ExprRule{name: name, expr: expr, prog: prog, vm: goja.New()}, nil
}

func (r *ExprRule) Name() string { return r.name }

// Score evaluates the expression for one ready operation.
func (r *ExprRule) Score(d *dispatch.Dispatcher, op *jobshop.Operation) (float64, error) {
	opMap := map[string]any{
		"id":       op.OperationID,
		"jobId":    op.JobID,
		"position": op.PositionInJob,
		"duration": op.Duration,
		"machines": op.Machines,
	}
	stateMap := map[string]any{
		"currentTime":          d.CurrentTime(),
		"earliestStart":        d.EarliestStartTime(op),
		"jobNextAvailable":     d.JobNextAvailableTime(),
		"machineNextAvailable": d.MachineNextAvailableTime(),
	}
	if err := r.vm.Set("op", opMap); err != nil {
		return 0, fmt.Errorf("set op: %w", err)
	}
	if err := r.vm.Set("state", stateMap); err != nil {
		return 0, fmt.Errorf("set state: %w", err)
	}

	value, err := r.vm.RunProgram(r.prog)
	if err != nil {
		return 0, fmt.Errorf("evaluate rule expression: %w", err)
	}
	score := value.ToFloat()
	if score != score { // NaN
		return 0, jobshop.NewValidationError(
			"rule expression %q did not evaluate to a number for operation %d", r.expr, op.OperationID)
	}
	return score, nil
}

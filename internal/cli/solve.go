package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/goshop/internal/loader"
	"github.com/me/goshop/internal/rules"
	"github.com/me/goshop/pkg/jobshop"
)

func newSolveCmd() *cobra.Command {
	var ruleName string
	var expression string
	var asJSON bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "solve <instance>",
		Short: "Solve an instance with a dispatching rule",
		Long: `Solve builds a complete schedule for the instance with the chosen
dispatching rule and prints the per-machine schedule.

--expression overrides --rule with a JavaScript scoring expression; the
operation with the lowest score is committed each step. The expression
sees 'op' (id, jobId, position, duration, machines) and 'state'
(currentTime, earliestStart, jobNextAvailable, machineNextAvailable).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := contextWithTimeout(cmd, timeout)
			defer cancel()

			instance, err := loader.NewFetcher().Load(ctx, args[0])
			if err != nil {
				return fmt.Errorf("load instance: %w", err)
			}

			rule, err := resolveRule(ruleName, expression)
			if err != nil {
				return err
			}

			sched, result, err := rules.NewSolver(rule, logger).Solve(instance)
			if err != nil {
				return fmt.Errorf("solve: %w", err)
			}

			if asJSON {
				return printSolveJSON(instance, sched, result)
			}
			printSolveTable(instance, sched, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&ruleName, "rule", "spt", "Dispatching rule (fifo, spt, lpt, mwkr, est)")
	cmd.Flags().StringVar(&expression, "expression", "", "JavaScript scoring expression (overrides --rule)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the schedule as JSON")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Abort after this duration (0 for none)")

	return cmd
}

func resolveRule(name, expression string) (rules.Rule, error) {
	if expression != "" {
		return rules.NewExprRule("expression", expression)
	}
	return rules.ByName(name)
}

func printSolveTable(instance *jobshop.Instance, sched *jobshop.Schedule, result rules.Result) {
	fmt.Printf("Instance: %s (%d jobs, %d machines, %d operations)\n",
		instance.Name, instance.NumJobs(), instance.NumMachines(), instance.NumOperations())
	fmt.Printf("Rule: %s  Makespan: %d  Steps: %d  Elapsed: %s\n\n",
		result.Rule, result.Makespan, result.Steps, result.Elapsed.Round(time.Microsecond))

	fmt.Printf("%-10s  %s\n", "MACHINE", "SCHEDULE")
	fmt.Printf("%-10s  %s\n", "-------", "--------")
	for m := 0; m < instance.NumMachines(); m++ {
		fmt.Printf("%-10d  ", m)
		for i, so := range sched.MachineSequence(m) {
			if i > 0 {
				fmt.Print("  ")
			}
			fmt.Printf("J%d.%d[%d-%d]", so.Operation.JobID, so.Operation.PositionInJob,
				so.StartTime, so.EndTime())
		}
		fmt.Println()
	}
}

func printSolveJSON(instance *jobshop.Instance, sched *jobshop.Schedule, result rules.Result) error {
	type entry struct {
		OperationID int `json:"operation_id"`
		JobID       int `json:"job_id"`
		Position    int `json:"position"`
		MachineID   int `json:"machine_id"`
		StartTime   int `json:"start_time"`
		EndTime     int `json:"end_time"`
	}
	all := sched.All()
	entries := make([]entry, 0, len(all))
	for _, so := range all {
		entries = append(entries, entry{
			OperationID: so.Operation.OperationID,
			JobID:       so.Operation.JobID,
			Position:    so.Operation.PositionInJob,
			MachineID:   so.MachineID,
			StartTime:   so.StartTime,
			EndTime:     so.EndTime(),
		})
	}

	out := map[string]any{
		"instance": instance.Name,
		"rule":     result.Rule,
		"makespan": result.Makespan,
		"steps":    result.Steps,
		"schedule": entries,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

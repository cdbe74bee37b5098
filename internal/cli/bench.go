package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/goshop/internal/loader"
	"github.com/me/goshop/internal/rules"
)

func newBenchCmd() *cobra.Command {
	var ruleNames []string

	cmd := &cobra.Command{
		Use:   "bench <instance>",
		Short: "Compare dispatching rules on an instance",
		Long: `Bench solves the instance once per rule and prints a comparison
table sorted by the order the rules were given. The best makespan is
marked with an asterisk.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := contextWithTimeout(cmd, 0)
			defer cancel()

			instance, err := loader.NewFetcher().Load(ctx, args[0])
			if err != nil {
				return fmt.Errorf("load instance: %w", err)
			}

			if len(ruleNames) == 0 {
				ruleNames = rules.Names()
			}

			results := make([]rules.Result, 0, len(ruleNames))
			best := -1
			for _, name := range ruleNames {
				rule, err := rules.ByName(strings.TrimSpace(name))
				if err != nil {
					return err
				}
				_, result, err := rules.NewSolver(rule, logger).Solve(instance)
				if err != nil {
					return fmt.Errorf("rule %s: %w", name, err)
				}
				results = append(results, result)
				if best == -1 || result.Makespan < results[best].Makespan {
					best = len(results) - 1
				}
			}

			fmt.Printf("Instance: %s (%d jobs, %d machines)\n\n",
				instance.Name, instance.NumJobs(), instance.NumMachines())
			fmt.Printf("%-10s  %-10s  %s\n", "RULE", "MAKESPAN", "ELAPSED")
			fmt.Printf("%-10s  %-10s  %s\n", "----", "--------", "-------")
			for i, r := range results {
				mark := ""
				if i == best {
					mark = " *"
				}
				fmt.Printf("%-10s  %-10s  %s\n", r.Rule,
					fmt.Sprintf("%d%s", r.Makespan, mark),
					r.Elapsed.Round(time.Microsecond))
			}
			if opt := instance.Metadata.Optimum; opt != 0 {
				fmt.Printf("\nKnown optimum: %d\n", opt)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&ruleNames, "rules", nil, "Rules to compare (default: all built-ins)")

	return cmd
}

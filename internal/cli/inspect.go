package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/goshop/internal/loader"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <instance>",
		Short: "Show instance structure and aggregates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := contextWithTimeout(cmd, 0)
			defer cancel()

			instance, err := loader.NewFetcher().Load(ctx, args[0])
			if err != nil {
				return fmt.Errorf("load instance: %w", err)
			}

			fmt.Printf("Name:        %s\n", instance.Name)
			fmt.Printf("Jobs:        %s\n", humanize.Comma(int64(instance.NumJobs())))
			fmt.Printf("Machines:    %s\n", humanize.Comma(int64(instance.NumMachines())))
			fmt.Printf("Operations:  %s\n", humanize.Comma(int64(instance.NumOperations())))
			fmt.Printf("Flexible:    %v\n", instance.IsFlexible())
			fmt.Printf("Max duration: %d\n", instance.MaxDuration())

			meta := instance.Metadata
			if meta.Optimum != 0 {
				fmt.Printf("Optimum:     %d\n", meta.Optimum)
			}
			if meta.LowerBound != 0 || meta.UpperBound != 0 {
				fmt.Printf("Bounds:      [%d, %d]\n", meta.LowerBound, meta.UpperBound)
			}
			if meta.Reference != "" {
				fmt.Printf("Reference:   %s\n", meta.Reference)
			}

			fmt.Printf("\n%-8s  %s\n", "JOB", "TOTAL DURATION")
			fmt.Printf("%-8s  %s\n", "---", "--------------")
			for j, d := range instance.JobDurations() {
				fmt.Printf("%-8d  %d\n", j, d)
			}

			fmt.Printf("\n%-8s  %s\n", "MACHINE", "LOAD")
			fmt.Printf("%-8s  %s\n", "-------", "----")
			for m, load := range instance.MachineLoads() {
				fmt.Printf("%-8d  %d\n", m, load)
			}

			return nil
		},
	}
}

package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/goshop/internal/logging"
)

var (
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the goshop CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "goshop",
		Short: "goshop — job-shop scheduling with dispatching rules",
		Long: `goshop solves job-shop scheduling instances with dispatching rules,
benchmarks rules against each other, and serves instances over a REST API.

Instances are read from local paths, file://, http(s)://, or s3:// locations,
in Taillard text format or the JSON document format.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.New(logging.ParseLevel(flagLogLevel), flagLogFormat)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newSolveCmd(),
		newInspectCmd(),
		newBenchCmd(),
		newServeCmd(),
	)

	return root
}

// contextWithTimeout derives a context from the command, with an
// optional deadline. A zero timeout means no deadline.
func contextWithTimeout(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), timeout)
}

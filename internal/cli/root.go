// Package cli implements the threaddigest command line.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/thebtf/threaddigest/pkg/models"
)

// Exit codes returned by ExitCode.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitDecode    = 2
	ExitCluster   = 3
	ExitSelection = 4
)

var (
	version = "dev"

	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "threaddigest",
	Short: "Summarize message batches by clustering their embeddings",
	Long: `threaddigest groups semantically similar messages by clustering their
embedding vectors with HDBSCAN, discards outliers, and emits the most
typical message of every group.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/threaddigest/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
}

// Execute runs the root command with the given build version.
func Execute(ctx context.Context, v string) error {
	version = v
	return rootCmd.ExecuteContext(ctx)
}

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, models.ErrDecode):
		return ExitDecode
	case errors.Is(err, models.ErrCluster):
		return ExitCluster
	case errors.Is(err, models.ErrSelection):
		return ExitSelection
	default:
		return ExitFailure
	}
}

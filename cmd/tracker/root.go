package tracker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	dbPath      string
	apiURLFlag  string
	logLevel    string
	metricsFile string
)

var rootCmd = &cobra.Command{
	Use:           "tracker",
	Short:         "tracker logs workouts against the workout tracker API",
	Long:          "tracker is a terminal client for the online workout tracker: exercises, categories, workouts, sets and nutrition.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes the command tree and releases whatever the command opened, even when
// it failed before its post-run hooks.
func run(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if cerr := closeRuntime(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to SQLite state database")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "API base URL (default from TRACKER_API_URL, config, or "+defaultAPIURLHint+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write request metrics in Prometheus text format to this file on exit")
}

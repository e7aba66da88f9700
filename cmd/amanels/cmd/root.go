// Package cmd provides the CLI commands for amanels.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	elserrors "github.com/Aman-CERP/amanels/internal/errors"
	"github.com/Aman-CERP/amanels/internal/logging"
	"github.com/Aman-CERP/amanels/internal/profiling"
	"github.com/Aman-CERP/amanels/pkg/version"
)

// Profiling flags
var (
	profileCPU   string
	profileMem   string
	profileTrace string
	profiler     *profiling.Profiler
)

// Debug logging flag
var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the amanels CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "amanels",
		Short: "Equidistant letter sequence search",
		Long: `amanels searches a text for equidistant letter sequences: words spelled
by letters a fixed number of positions apart.

The text is normalized to a single alphabet (Latin, Greek or Hebrew) and
every start position and skip in range is scanned for the given terms and
their reversals.

  amanels search genesis.txt torah
  amanels history list
  amanels serve`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("amanels version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&profileCPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&profileMem, "profile-mem", "", "Write memory profile to file")
	cmd.PersistentFlags().StringVar(&profileTrace, "profile-trace", "", "Write execution trace to file")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to stderr and ~/.amanels/logs/")

	cmd.PersistentPreRunE = startProfilingAndLogging
	cmd.PersistentPostRunE = stopProfilingAndLogging

	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newLanguagesCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startProfilingAndLogging installs the file logger and starts any
// requested profiles.
func startProfilingAndLogging(_ *cobra.Command, _ []string) error {
	cfg := logging.DefaultConfig()
	if debugMode {
		cfg = logging.DebugConfig()
	}
	logger, cleanup, err := logging.Setup(cfg)
	if err != nil {
		// A read-only home should not stop a search.
		logger, cleanup = logging.Discard(), func() {}
	}
	prev := slog.Default()
	slog.SetDefault(logger)
	loggingCleanup = func() {
		slog.SetDefault(prev)
		cleanup()
	}
	if debugMode {
		slog.Debug("debug_logging_enabled",
			slog.String("log_file", cfg.FilePath),
			slog.String("version", version.Version))
	}

	profiler, err = profiling.Start(profiling.Options{
		CPU:   profileCPU,
		Heap:  profileMem,
		Trace: profileTrace,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}
	return nil
}

// stopProfilingAndLogging flushes profiles and closes the log file.
func stopProfilingAndLogging(_ *cobra.Command, _ []string) error {
	var err error
	if profiler != nil {
		err = profiler.Stop()
		profiler = nil
	}
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	if err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// Execute runs the root command and prints any error in CLI form.
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		if _, ok := elserrors.As(err); ok {
			fmt.Fprint(os.Stderr, elserrors.FormatForCLI(err))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	// Post-run hooks are skipped when RunE fails.
	_ = stopProfilingAndLogging(root, nil)
	return err
}

// Package cli wires the unit binary: flag parsing, configuration
// loading, and the mapping from suite outcomes to process exit codes.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/forthkit/unit/internal/config"
	"github.com/forthkit/unit/internal/harness"
	"github.com/forthkit/unit/internal/imagestore"
	"github.com/forthkit/unit/internal/suite"
)

// Options holds the root command flags.
type Options struct {
	Color      bool
	Keep       bool
	Silent     bool
	Verbose    bool
	ConfigPath string
}

// NewRootCommand creates the root command for the unit binary.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "unit [flags] [--]",
		Short: "Crash-isolating unit tests for the Forth engine",
		Long: `unit executes a fixed series of tests exercising the Forth engine's
public interface. Abort-class failures raised inside the engine during an
assertion are caught and recorded as test failures instead of terminating
the run.

Exit codes:
  0   - all assertions passed
  N   - N assertions failed
  2   - usage or configuration error (including -h, so help does not pass)
  255 - a must assertion failed, or harness setup failed

Flag parsing stops at "-" or "--"; remaining arguments are ignored.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Color, "color", "c", false, "force colorized output on")
	cmd.Flags().BoolVarP(&opts.Keep, "keep", "k", false, "keep the core image catalog file")
	cmd.Flags().BoolVarP(&opts.Silent, "silent", "s", false, "suppress all test output")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose diagnostics on stderr")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML configuration file")
	// Flag parsing stops at the first positional argument (including a
	// bare "-"); whatever follows is ignored rather than rejected.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

// Execute runs the root command and returns the process exit code.
//
// Cobra handles -h/--help itself and reports success; help must not look
// like a passing run, so it is mapped to a usage-error exit here.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		if f := cmd.Flags().Lookup("help"); f != nil && f.Changed {
			return ExitUsage
		}
		return ExitSuccess
	}

	fmt.Fprintln(cmd.ErrOrStderr(), err)
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		// Flag parse failure; cobra already formatted the message.
		fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
	}
	return GetExitCode(err)
}

func run(cmd *cobra.Command, opts *Options) error {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return WrapExitError(ExitUsage, "configuration error", err)
		}
		cfg = loaded
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if opts.Verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	h := harness.New(cfg.SuiteName, harness.Options{
		Out:    cmd.OutOrStdout(),
		Silent: opts.Silent,
		Color:  opts.Color,
		Logger: logger,
	})
	if err := h.Start(); err != nil {
		return WrapExitError(ExitFatal, "harness setup failed", err)
	}

	images, err := imagestore.Open(cfg.ImageDB)
	if err != nil {
		return WrapExitError(ExitFatal, "harness setup failed", err)
	}

	s := suite.New(cmd.Context(), cfg, images)
	fatal := h.RunPhases(s.Phases()...)
	failed := h.End()

	if err := images.Close(); err != nil {
		logger.Warn("closing image catalog", "error", err)
	}
	if !opts.Keep {
		removeCatalog(cfg.ImageDB)
	}

	if fatal != nil {
		return WrapExitError(ExitFatal, "fatal assertion failure", fatal)
	}
	if failed > 0 {
		return NewExitError(failed, fmt.Sprintf("%d assertion(s) failed", failed))
	}
	return nil
}

// removeCatalog deletes the catalog file and its WAL sidecars.
func removeCatalog(path string) {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		os.Remove(p)
	}
}

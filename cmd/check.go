package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/teemow/drivecheck/internal/check"
	"github.com/teemow/drivecheck/internal/config"
	"github.com/teemow/drivecheck/internal/instrumentation"
	"github.com/teemow/drivecheck/internal/logging"
)

// CheckOptions holds the flags of the check command.
type CheckOptions struct {
	Dir           string
	EnvFile       string
	FolderPrefix  string
	SkipFolderOps bool
	ExitCode      bool
	Plain         bool
	LogLevel      string
	Pushgateway   string
}

// ProbesFailedError is returned with --exit-code when at least one probe failed.
type ProbesFailedError struct {
	Failed int
	Total  int
}

func (e *ProbesFailedError) Error() string {
	return fmt.Sprintf("%d of %d probes failed", e.Failed, e.Total)
}

func newCheckCmd() *cobra.Command {
	var opts CheckOptions

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the Google Drive credential diagnostic",
		Long: `Load GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET, GOOGLE_REFRESH_TOKEN and the
optional GOOGLE_DRIVE_FOLDER_ID from the process environment or the first of
.env, .env.example, ../.env, ../.env.example, then probe the OAuth token
endpoint and the Google Drive API.

Environment Loading, Token Refresh and Drive Service are critical: the run
stops after the first of them that fails. The Folder Operations probe creates,
shares and deletes a test folder; use --skip-folder-ops against drives that
must not be written to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return runCheck(ctx, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.Dir, "dir", "", "Directory to search for .env files (default: current directory)")
	cmd.Flags().StringVar(&opts.EnvFile, "env-file", "", "Load settings from this file instead of searching for .env files")
	cmd.Flags().StringVar(&opts.FolderPrefix, "folder-prefix", check.DefaultFolderPrefix, "Name prefix of the temporary test folder")
	cmd.Flags().BoolVar(&opts.SkipFolderOps, "skip-folder-ops", false, "Skip the probe that creates, shares and deletes a test folder")
	cmd.Flags().BoolVar(&opts.ExitCode, "exit-code", false, "Exit with status 1 when any probe fails")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "Use plain ASCII status markers instead of emoji")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", envOrDefault("DRIVECHECK_LOG_LEVEL", "warn"), "Log level: debug, info, warn or error. Can also use DRIVECHECK_LOG_LEVEL env var.")
	cmd.Flags().StringVar(&opts.Pushgateway, "pushgateway", "", "Push run metrics to this Prometheus Pushgateway URL. Can also use PUSHGATEWAY_URL env var.")

	return cmd
}

func runCheck(ctx context.Context, opts CheckOptions, stdout, stderr io.Writer) error {
	level, err := logging.ParseLevel(opts.LogLevel)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := logging.WithRunID(logging.NewLogger(stderr, level), runID)
	slog.SetDefault(logger)

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if instrConfig.ServiceInstanceID == "" {
		instrConfig.ServiceInstanceID = runID
	}
	if opts.Pushgateway != "" {
		instrConfig.PushgatewayURL = opts.Pushgateway
	}

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		// Telemetry is optional; the diagnostic runs without it.
		logger.Warn("instrumentation disabled", logging.Err(err))
		provider, err = instrumentation.NewProvider(ctx, instrumentation.Config{Enabled: false})
		if err != nil {
			return fmt.Errorf("failed to create instrumentation provider: %w", err)
		}
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	state := &check.State{
		Loader:       &config.Loader{Dir: opts.Dir, File: opts.EnvFile},
		FolderPrefix: opts.FolderPrefix,
		Console:      newConsole(stdout, opts.Plain),
		Logger:       logger,
		Metrics:      provider.Metrics(),
		RunID:        runID,
	}

	logger.Info("starting diagnostic", "skip_folder_ops", opts.SkipFolderOps)
	report := check.Run(ctx, state, check.DefaultProbes(opts.SkipFolderOps))
	check.PrintSummary(state.Console, report)
	logger.Info("diagnostic finished", "passed", report.Passed(), "total", report.Total())

	if err := provider.Push(ctx); err != nil {
		logger.Warn("failed to push metrics", logging.Err(err))
	}

	if opts.ExitCode && !report.AllPassed() {
		return &ProbesFailedError{Failed: report.Total() - report.Passed(), Total: report.Total()}
	}
	return nil
}

// newConsole decorates terminals with emoji and keeps everything else plain.
func newConsole(w io.Writer, plain bool) *check.Console {
	if f, ok := w.(*os.File); ok {
		return check.NewTerminalConsole(f, plain)
	}
	return check.NewConsole(w, true)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

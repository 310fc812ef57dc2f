package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/OrlandoBitencourt/parkinsights"
	"github.com/OrlandoBitencourt/parkinsights/internal/envfiles"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

// app carries state shared by every subcommand.
type app struct {
	// flags
	envDir   string
	mode     string
	timeout  time.Duration
	logLevel string
	metrics  bool

	environ []string

	// set in PersistentPreRunE
	logger   *slog.Logger
	settings parkinsights.Settings
	meter    *meterSink
}

func newRootCmd(environ []string) *cobra.Command {
	a := &app{environ: environ}

	root := &cobra.Command{
		Use:   "parkinsights",
		Short: "Client for the parking-insights dashboard backend",
		Long: `parkinsights reads backend settings from the environment (and .env files),
calls the dashboard API and hosts the built dashboard.

Environment:

  NODE_ENV             run mode (development, production, ...); --mode wins, then
                       the process environment, then .env files. The mode picks
                       the .env.<mode> files before any file is read.
  VUE_APP_API_URL      backend base URL (default http://localhost:8000)
  VUE_APP_ENVIRONMENT  environment label (default development)

Common workflow:

  parkinsights config                          # show resolved settings
  parkinsights parking --where 'available_spots > 0'
  parkinsights insights                        # raw insights JSON
  parkinsights routes /insights                # which view a path renders
  parkinsights serve --addr :8080              # host the dashboard build`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.envDir, "env-dir", ".", "Directory holding .env files")
	flags.StringVarP(&a.mode, "mode", "m", "", "Run mode; overrides NODE_ENV and selects .env.<mode> files")
	flags.DurationVar(&a.timeout, "timeout", parkinsights.DefaultTimeout, "Per-request timeout")
	flags.StringVar(&a.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flags.BoolVar(&a.metrics, "metrics", false, "Log request metrics collected through OpenTelemetry")

	root.AddCommand(
		newConfigCmd(a),
		newParkingCmd(a),
		newInsightsCmd(a),
		newRoutesCmd(a),
		newServeCmd(a),
	)

	return root
}

// Execute runs the root command against the process environment.
func Execute() error {
	if err := newRootCmd(os.Environ()).Execute(); err != nil {
		return fmt.Errorf("cli error: %w", err)
	}
	return nil
}

func (a *app) init(stderr io.Writer) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", a.logLevel, err)
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	if a.metrics {
		a.meter = installMeterSink()
	}

	process := parkinsights.EnvironMap(a.environ)

	mode := strings.TrimSpace(a.mode)
	if mode == "" {
		mode = process[parkinsights.EnvMode]
	}
	if mode == "" {
		mode = parkinsights.ModeDevelopment
	}

	files, err := envfiles.Read(a.envDir, mode)
	if err != nil {
		return err
	}

	merged := envfiles.Overlay(files, process)
	if fileMode, ok := files[parkinsights.EnvMode]; ok && fileMode != "" {
		if a.mode == "" && process[parkinsights.EnvMode] == "" {
			// NODE_ENV from a file sets the mode but cannot reselect the files.
			mode = fileMode
		} else if fileMode != mode {
			a.logger.Debug(parkinsights.EnvMode+" from .env file ignored",
				slog.String("file_value", fileMode),
				slog.String("mode", mode),
			)
		}
	}
	merged[parkinsights.EnvMode] = mode

	a.settings = parkinsights.Resolve(merged)

	a.logger.Debug("settings resolved",
		slog.String("base_url", a.settings.BaseURL),
		slog.String("environment", a.settings.Environment),
		slog.String("mode", a.settings.Mode),
		slog.Int("env_file_vars", len(files)),
	)
	if a.settings.IsProduction && a.settings.UsedDefaultBaseURL {
		a.logger.Warn("production mode without "+parkinsights.EnvBaseURL+"; using the development backend",
			slog.String("base_url", a.settings.BaseURL),
		)
	}

	return nil
}

func (a *app) newClient() (*parkinsights.Client, error) {
	opts := []parkinsights.Option{
		parkinsights.WithTimeout(a.timeout),
		parkinsights.WithLogger(a.logger),
		parkinsights.WithUserAgent("parkinsights-cli/" + version),
	}
	if a.meter != nil {
		opts = append(opts, parkinsights.WithOpenTelemetry())
	}
	return parkinsights.New(a.settings, opts...)
}

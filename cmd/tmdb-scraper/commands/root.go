package commands

import (
	"context"
	"log/slog"
	"os"
	"time"
	"tmdb-scraper/cmd/tmdb-scraper/globals"
	"tmdb-scraper/internal/components/telemetry"
	"tmdb-scraper/pkg/serviceutil"

	"github.com/spf13/cobra"
)

var (
	logLevel        string
	enableTelemetry bool
)

// set when otel is enabled, flushed before exiting
var otelTelemetry *telemetry.Telemetry

var rootCmd = &cobra.Command{
	Use:           "tmdb-scraper",
	Short:         "tmdb-scraper exports the movie listings of The Movie Database to csv files.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := telemetry.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		telemetry.InitSlog(os.Stderr, level)

		if enableTelemetry {
			t, err := telemetry.SetupFromEnv(cmd.Context(), "tmdb-scraper")
			if err != nil {
				return err
			}
			otelTelemetry = &t
			telemetry.InstrumentPerfStats(cmd.Context(), 5*time.Second)
		}

		cmd.SetContext(globals.Set(cmd.Context(), &globals.Value{
			Tel: telemetry.NewSlogAPI(),
		}))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level, one of debug, info, warn or error.")
	rootCmd.PersistentFlags().BoolVar(&enableTelemetry, "telemetry", false, "Export traces and metrics with the otlp settings found in telemetry.json5.")
}

func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)

	if otelTelemetry != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownErr := otelTelemetry.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			slog.Warn("failed to flush telemetry", "err", shutdownErr.Error())
		}
	}

	if err != nil {
		serviceutil.Fatal("tmdb-scraper", err)
	}
}

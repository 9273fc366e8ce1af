package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"

	"fintrack/internal/cache"
	"fintrack/internal/chart"
	"fintrack/internal/config"
	apphttp "fintrack/internal/http"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
)

type serveCmd struct {
	port string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "start the finance tracker web UI" }
func (*serveCmd) Usage() string {
	return `fintrack serve [-port <port>]

  Serves the tracker page. Configuration is read from the environment
  (and .env when present); -port overrides PORT.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.port, "port", "", "Port to listen on (overrides PORT)")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	LoadEnvFile()
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.port != "" {
		cfg.Port = c.port
	}
	logger := SetupLogger(cfg)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server stopped with error", applog.FieldError, err)
		return subcommands.ExitFailure
	}
	logger.Info("Server stopped gracefully")
	return subcommands.ExitSuccess
}

func run(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	store := ledger.NewStore(logger.WithComponent(applog.ComponentLedger).Slog())
	if cfg.SeedCSV != "" {
		n, err := Replay(ctx, store, cfg.SeedCSV)
		if err != nil {
			return fmt.Errorf("seed ledger: %w", err)
		}
		logger.Info("Ledger seeded", applog.FieldOperation, applog.OpImport,
			"path", cfg.SeedCSV, "transactions", n)
	}

	canvas := chart.NewCanvas(logger.WithComponent(applog.ComponentChart).Slog())
	defer canvas.Attach(store)()

	exporter := report.NewExporter(store, cfg.ReportTitle, cfg.ReportCacheSize, cfg.ReportCacheTTL,
		logger.WithComponent(applog.ComponentReport).Slog())
	defer store.Subscribe(exporter)()

	caches := cache.NewManager()
	if c := exporter.Cleaner(); c != nil {
		caches.Register(c)
		caches.StartCleanup(cfg.ReportCacheTTL)
	}
	defer caches.Stop()

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Dependencies{
		Store:        store,
		Canvas:       canvas,
		Exporter:     exporter,
		Logger:       logger,
		Title:        cfg.ReportTitle,
		RateLimitRPM: cfg.RateLimitRPM,
	})

	logger.Info("Starting fintrack server",
		applog.FieldOperation, applog.OpStartup,
		"port", cfg.Port,
		"report_cache_size", cfg.ReportCacheSize)
	return Serve(ctx, srv, cfg.ShutdownTimeout, logger)
}

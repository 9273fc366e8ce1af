// Package cli holds the fintrack subcommands and the initialization steps
// they share: environment, configuration, logging and lifecycle.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fintrack/internal/config"
	"fintrack/internal/gateway"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the application logger from cfg and installs it as the
// slog default.
func SetupLogger(cfg *config.Config) *applog.Logger {
	logCfg := applog.DefaultConfig()
	logCfg.Level = cfg.SlogLevel()
	logCfg.Format = cfg.LogFormat
	logger := applog.New(logCfg)
	applog.SetDefault(logger)
	return logger
}

// Replay reads a ledger CSV and adds every row to store in file order. It stops
// at the first row the store rejects; rows before it stay applied.
func Replay(ctx context.Context, store *ledger.Store, path string) (int, error) {
	rows, err := gateway.NewCSVLedgerReader().ReadFile(ctx, path)
	if err != nil {
		return 0, err
	}
	for i, f := range rows {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, err := store.AddTransaction(f); err != nil {
			// +2: one for the header, one for 1-based line numbers
			return i, fmt.Errorf("%s line %d: %w", path, i+2, err)
		}
	}
	return len(rows), nil
}

// Runner is the part of an http.Server that Serve drives.
type Runner interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// Serve runs srv until ctx is cancelled or the listener fails, then shuts it
// down within timeout.
func Serve(ctx context.Context, srv Runner, timeout time.Duration, logger *applog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

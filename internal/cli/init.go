// Package cli holds the start-up helpers shared by the binaries under cmd/.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"tracker/internal/amqp"
	"tracker/internal/config"
	applog "tracker/internal/log"
	"tracker/internal/sheets/google"
	"tracker/internal/sink"
	"tracker/internal/storage"
)

// SetupLogger builds the application logger for level and installs it as
// the slog default.
func SetupLogger(level string) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Level = applog.ParseLevel(level)
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// SignalContext is cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// Sinks is the summary fan-out built from configuration together with the
// resources that must be released on shutdown.
type Sinks struct {
	*sink.Multi
	// Journal is set when the sqlite sink is enabled.
	Journal *storage.SQLiteRepository
	closers []io.Closer
}

// Close releases every opened sink resource.
func (s *Sinks) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// InitSinks opens the sinks selected in cfg.SummarySinks. A sink that fails
// to open aborts start-up so misconfiguration is visible immediately.
func InitSinks(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*Sinks, error) {
	out := &Sinks{}
	var named []sink.Named

	for _, name := range cfg.SummarySinks {
		switch name {
		case config.SinkLog:
			named = append(named, sink.Named{Name: name, Sink: sink.NewLogSink(logger)})
		case config.SinkSQLite:
			repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
			if err != nil {
				out.Close()
				return nil, fmt.Errorf("open sqlite journal %s: %w", cfg.SQLiteDBPath, err)
			}
			out.Journal = repo
			out.closers = append(out.closers, repo)
			named = append(named, sink.Named{Name: name, Sink: repo})
		case config.SinkAMQP:
			client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
			if err != nil {
				out.Close()
				return nil, fmt.Errorf("connect amqp: %w", err)
			}
			out.closers = append(out.closers, client)
			named = append(named, sink.Named{Name: name, Sink: client})
		case config.SinkSheets:
			client, err := google.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSummarySheetName)
			if err != nil {
				out.Close()
				return nil, fmt.Errorf("open sheets: %w", err)
			}
			named = append(named, sink.Named{Name: name, Sink: client})
		default:
			out.Close()
			return nil, fmt.Errorf("unknown summary sink %q", name)
		}
		logger.Info("Summary sink enabled", applog.FieldSink, name)
	}

	out.Multi = sink.NewMulti(named...)
	return out, nil
}

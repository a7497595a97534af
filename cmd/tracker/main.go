package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"tracker/internal/cache"
	"tracker/internal/cli"
	"tracker/internal/core"
	apphttp "tracker/internal/http"
	applog "tracker/internal/log"
	"tracker/internal/metrics"
	"tracker/internal/scheduler"
	"tracker/internal/services"
	"tracker/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))

	if err := run(logger); err != nil {
		logger.Error("Tracker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(logger *applog.Logger) error {
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext()
	defer stop()

	reg := core.LoadRegistry(cfg.DataDir)
	logger.Info("Category registry loaded", "categories", reg.Len(), "data_dir", cfg.DataDir)

	m := metrics.New()

	reports := cache.NewLRUCache[core.Report](16, 5*time.Minute)
	caches := cache.NewManager()
	caches.Register(reports)
	caches.StartCleanup(10 * time.Minute)
	defer caches.Stop()

	st := store.New()
	expenses := services.NewExpenseService(reg, st,
		services.WithReportCache(reports),
		services.WithMetrics(m),
		services.WithLogger(logger))

	sinks, err := cli.InitSinks(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init summary sinks: %w", err)
	}
	defer sinks.Close()

	loc, err := cfg.Location()
	if err != nil {
		return fmt.Errorf("summary timezone: %w", err)
	}

	summaries := services.NewSummaryProcessor(st, sinks, m, logger)
	sched := scheduler.New([]scheduler.Trigger{
		{
			Name:     core.WeeklySummary,
			Schedule: scheduler.Every(cfg.WeeklySummaryInterval),
			Run: func(ctx context.Context, now time.Time) error {
				_, err := summaries.Weekly(ctx, now)
				return err
			},
		},
		{
			Name:     core.MonthlySummary,
			Schedule: scheduler.MonthStart{Location: loc},
			Run: func(ctx context.Context, now time.Time) error {
				_, err := summaries.Monthly(ctx, now)
				return err
			},
		},
	}, scheduler.WithLogger(logger))

	opts := []apphttp.Option{
		apphttp.WithLogger(logger),
		apphttp.WithMetrics(m),
		apphttp.WithRateLimit(cfg.RateLimitPerMinute),
	}
	if sinks.Journal != nil {
		opts = append(opts, apphttp.WithSummaryJournal(sinks.Journal))
	}
	srv := apphttp.NewServer(":"+cfg.Port, expenses, opts...)
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// A scheduler failure must not take the API down.
		if err := sched.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Scheduler stopped", applog.FieldError, err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Starting tracker server",
			"port", cfg.Port,
			"sinks", cfg.SummarySinks,
			"weekly_interval", cfg.WeeklySummaryInterval.String(),
			"timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", applog.FieldOperation, applog.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

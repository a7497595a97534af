package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"tracker/internal/amqp"
	"tracker/internal/cli"
	"tracker/internal/config"
	applog "tracker/internal/log"
	"tracker/internal/worker"
)

// summary-worker consumes the summaries the tracker publishes over AMQP and
// replays them into the other configured sinks (SQLite journal, Sheets, log).
func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))

	if err := run(logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Summary worker stopped with error", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Summary worker stopped")
}

func run(logger *applog.Logger) error {
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := cli.SignalContext()
	defer stop()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("connect amqp: %w", err)
	}
	defer client.Close()

	// Never publish back to the queue being consumed.
	local := *cfg
	local.SummarySinks = slices.DeleteFunc(slices.Clone(cfg.SummarySinks), func(s string) bool {
		return s == config.SinkAMQP
	})
	if len(local.SummarySinks) == 0 {
		local.SummarySinks = []string{config.SinkLog}
	}

	sinks, err := cli.InitSinks(ctx, &local, logger)
	if err != nil {
		return fmt.Errorf("init summary sinks: %w", err)
	}
	defer sinks.Close()

	relay := worker.NewRelayWorker(sinks, logger)
	logger.Info("Starting summary worker", "queue", cfg.AMQPQueue, "sinks", local.SummarySinks)

	return client.ConsumeSummaries(ctx, func(msg *amqp.SummaryMessage) error {
		return relay.HandleSummaryMessage(ctx, msg)
	})
}

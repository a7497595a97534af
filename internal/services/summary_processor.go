package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/metrics"
	"tracker/internal/sink"
	"tracker/internal/store"
)

// SummaryProcessor computes the periodic totals and hands them to a sink.
// Each firing recomputes from the full store and keeps no state between runs.
type SummaryProcessor struct {
	store   *store.Store
	sink    sink.Sink
	window  time.Duration
	metrics *metrics.Metrics
	log     *applog.StructuredLogger
}

func NewSummaryProcessor(st *store.Store, out sink.Sink, m *metrics.Metrics, logger *applog.Logger) *SummaryProcessor {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &SummaryProcessor{
		store:   st,
		sink:    out,
		window:  core.WeeklyWindow,
		metrics: m,
		log:     applog.NewStructuredLogger(logger.WithComponent(applog.ComponentSummary)),
	}
}

// Weekly emits the total of expenses dated within the trailing window
// ending at now.
func (p *SummaryProcessor) Weekly(ctx context.Context, now time.Time) (core.Summary, error) {
	total := core.TotalSince(p.store.All(), now.Add(-p.window))
	return p.emit(ctx, core.WeeklySummary, total, now)
}

// Monthly emits the total of expenses in the calendar month of now.
func (p *SummaryProcessor) Monthly(ctx context.Context, now time.Time) (core.Summary, error) {
	total := core.TotalInMonth(p.store.All(), now)
	return p.emit(ctx, core.MonthlySummary, total, now)
}

func (p *SummaryProcessor) emit(ctx context.Context, label string, total decimal.Decimal, now time.Time) (core.Summary, error) {
	s := core.Summary{Label: label, Total: total, FiredAt: now}
	if p.sink == nil {
		return s, fmt.Errorf("emit %s summary: no sink configured", label)
	}
	if err := p.sink.Emit(ctx, s); err != nil {
		if p.metrics != nil {
			p.metrics.SummaryFailures.WithLabelValues(label).Inc()
		}
		return s, fmt.Errorf("emit %s summary: %w", label, err)
	}
	if p.metrics != nil {
		p.metrics.Summaries.WithLabelValues(label).Inc()
		p.metrics.SummaryTotal.WithLabelValues(label).Set(total.InexactFloat64())
	}
	p.log.LogSummary(ctx, label, core.FormatDollars(total), now.UTC().Format(time.RFC3339))
	return s, nil
}

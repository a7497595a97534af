// Package sink delivers scheduled summaries to their destinations.
package sink

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"tracker/internal/core"
	applog "tracker/internal/log"
)

// Sink receives the summaries produced by the scheduled triggers.
type Sink interface {
	Emit(ctx context.Context, s core.Summary) error
}

// Func adapts a function to Sink.
type Func func(ctx context.Context, s core.Summary) error

func (f Func) Emit(ctx context.Context, s core.Summary) error {
	return f(ctx, s)
}

// LogSink writes the summary line through the structured logger.
type LogSink struct {
	logger *applog.Logger
}

func NewLogSink(logger *applog.Logger) *LogSink {
	return &LogSink{logger: logger.WithComponent(applog.ComponentSink)}
}

func (l *LogSink) Emit(ctx context.Context, s core.Summary) error {
	l.logger.InfoContext(ctx, s.String(),
		applog.FieldTrigger, s.Label,
		applog.FieldTotal, s.Total.String(),
		applog.FieldFiredAt, s.FiredAt.UTC().Format("2006-01-02T15:04:05Z07:00"))
	return nil
}

// Named pairs a sink with the name used in errors.
type Named struct {
	Name string
	Sink Sink
}

// Multi fans a summary out to every sink concurrently. A failing sink does
// not stop the others; all failures are joined into the returned error.
type Multi struct {
	sinks []Named
}

func NewMulti(sinks ...Named) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) Len() int {
	return len(m.sinks)
}

func (m *Multi) Emit(ctx context.Context, s core.Summary) error {
	errs := make([]error, len(m.sinks))
	var g errgroup.Group
	for i, n := range m.sinks {
		g.Go(func() error {
			if err := n.Sink.Emit(ctx, s); err != nil {
				errs[i] = fmt.Errorf("%s sink: %w", n.Name, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

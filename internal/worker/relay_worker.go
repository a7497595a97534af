package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tracker/internal/amqp"
	applog "tracker/internal/log"
	"tracker/internal/sink"
)

// RelayWorker forwards summary messages consumed from the broker to local
// sinks. Redelivered messages whose firing instant was already relayed for
// the same trigger are acknowledged without forwarding.
type RelayWorker struct {
	out    sink.Sink
	logger *applog.Logger

	mu   sync.Mutex
	last map[string]time.Time
}

func NewRelayWorker(out sink.Sink, logger *applog.Logger) *RelayWorker {
	return &RelayWorker{
		out:    out,
		logger: logger.WithComponent(applog.ComponentAMQP),
		last:   make(map[string]time.Time),
	}
}

// HandleSummaryMessage relays one message. An error makes the consumer
// requeue it.
func (w *RelayWorker) HandleSummaryMessage(ctx context.Context, msg *amqp.SummaryMessage) error {
	s := msg.Summary()

	w.mu.Lock()
	prev, seen := w.last[s.Label]
	w.mu.Unlock()
	if seen && !s.FiredAt.After(prev) {
		w.logger.DebugContext(ctx, "Skipping already relayed summary",
			applog.FieldTrigger, s.Label,
			applog.FieldFiredAt, s.FiredAt)
		return nil
	}

	w.logger.InfoContext(ctx, "Processing summary message",
		applog.FieldTrigger, s.Label,
		applog.FieldTotal, s.Total.String())

	if err := w.out.Emit(ctx, s); err != nil {
		return fmt.Errorf("relay %s summary: %w", s.Label, err)
	}

	w.mu.Lock()
	if s.FiredAt.After(w.last[s.Label]) {
		w.last[s.Label] = s.FiredAt
	}
	w.mu.Unlock()
	return nil
}

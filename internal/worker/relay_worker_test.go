package worker

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tracker/internal/amqp"
	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/sink"
)

func message(label string, firedAt time.Time, total int64) *amqp.SummaryMessage {
	return &amqp.SummaryMessage{Label: label, Total: decimal.NewFromInt(total), FiredAt: firedAt}
}

func TestRelayWorker_ForwardsAndDedupes(t *testing.T) {
	var got []core.Summary
	out := sink.Func(func(_ context.Context, s core.Summary) error {
		got = append(got, s)
		return nil
	})
	w := NewRelayWorker(out, applog.New(applog.Config{Output: &bytes.Buffer{}}))
	ctx := context.Background()
	t0 := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	steps := []*amqp.SummaryMessage{
		message(core.WeeklySummary, t0, 10),
		message(core.WeeklySummary, t0, 10),                    // redelivery
		message(core.MonthlySummary, t0, 40),                   // other trigger
		message(core.WeeklySummary, t0.Add(-time.Hour), 3),     // older
		message(core.WeeklySummary, t0.Add(7*24*time.Hour), 7), // next week
	}
	for i, m := range steps {
		if err := w.HandleSummaryMessage(ctx, m); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if len(got) != 3 {
		t.Fatalf("relayed %d summaries, want 3: %+v", len(got), got)
	}
	wantTotals := []int64{10, 40, 7}
	for i, want := range wantTotals {
		if !got[i].Total.Equal(decimal.NewFromInt(want)) {
			t.Errorf("relayed[%d].Total = %v, want %d", i, got[i].Total, want)
		}
	}
}

func TestRelayWorker_FailureAllowsRetry(t *testing.T) {
	fail := true
	calls := 0
	out := sink.Func(func(context.Context, core.Summary) error {
		calls++
		if fail {
			return errors.New("disk full")
		}
		return nil
	})
	w := NewRelayWorker(out, applog.New(applog.Config{Output: &bytes.Buffer{}}))
	m := message(core.WeeklySummary, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), 10)

	if err := w.HandleSummaryMessage(context.Background(), m); err == nil {
		t.Fatal("expected error from failing sink")
	}
	fail = false
	if err := w.HandleSummaryMessage(context.Background(), m); err != nil {
		t.Fatalf("retry error = %v", err)
	}
	if calls != 2 {
		t.Errorf("sink calls = %d, want 2", calls)
	}
}

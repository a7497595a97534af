package scheduler

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	applog "tracker/internal/log"
)

// Trigger is one recurring job.
type Trigger struct {
	Name     string
	Schedule Schedule
	Run      func(ctx context.Context, now time.Time) error
}

// Clock abstracts time so tests can drive firings.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Scheduler runs each trigger on its own goroutine. Firings of one trigger
// are serialized; different triggers never share state.
type Scheduler struct {
	triggers []Trigger
	clock    Clock
	logger   *applog.Logger
	onResult func(name string, err error)
}

type Option func(*Scheduler)

func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

func WithLogger(l *applog.Logger) Option {
	return func(s *Scheduler) { s.logger = l.WithComponent(applog.ComponentScheduler) }
}

// WithResultHook is called after every firing with its outcome.
func WithResultHook(fn func(name string, err error)) Option {
	return func(s *Scheduler) { s.onResult = fn }
}

func New(triggers []Trigger, opts ...Option) *Scheduler {
	s := &Scheduler{
		triggers: triggers,
		clock:    realClock{},
		logger:   applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentScheduler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run blocks until ctx is cancelled. Firing errors and panics are logged and
// never end the loop, so Run only returns ctx's error or a configuration error.
func (s *Scheduler) Run(ctx context.Context) error {
	for _, t := range s.triggers {
		if t.Schedule == nil || t.Run == nil {
			return fmt.Errorf("trigger %q: schedule and run are required", t.Name)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range s.triggers {
		g.Go(func() error {
			s.loop(gctx, t)
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

func (s *Scheduler) loop(ctx context.Context, t Trigger) {
	next := t.Schedule.Next(s.clock.Now())
	s.logger.InfoContext(ctx, "Trigger scheduled",
		applog.FieldTrigger, t.Name,
		"next_run", next.Format(time.RFC3339))

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(next.Sub(s.clock.Now())):
		}
		if ctx.Err() != nil {
			return
		}

		s.Fire(ctx, t, next)

		// Catch up to the present without replaying missed firings.
		now := s.clock.Now()
		next = t.Schedule.Next(next)
		for !next.After(now) {
			next = t.Schedule.Next(next)
		}
		s.logger.DebugContext(ctx, "Trigger rescheduled",
			applog.FieldTrigger, t.Name,
			"next_run", next.Format(time.RFC3339))
	}
}

// ErrPanic marks a firing that panicked.
var ErrPanic = errors.New("trigger panicked")

// Fire executes a single firing of t at now. A failure is logged and
// returned; a panic is recovered and reported as ErrPanic.
func (s *Scheduler) Fire(ctx context.Context, t Trigger, now time.Time) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
			s.logger.ErrorContext(ctx, "Trigger panicked",
				applog.FieldTrigger, t.Name,
				applog.FieldError, err.Error(),
				"stack", string(debug.Stack()))
		}
		if s.onResult != nil {
			s.onResult(t.Name, err)
		}
	}()

	if err = t.Run(ctx, now); err != nil {
		s.logger.ErrorContext(ctx, "Trigger failed",
			applog.FieldTrigger, t.Name,
			applog.FieldError, err.Error(),
			applog.FieldOperation, applog.OpFire)
		return err
	}
	s.logger.InfoContext(ctx, "Trigger completed",
		applog.FieldTrigger, t.Name,
		applog.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"tracker/internal/cache"
	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/metrics"
	"tracker/internal/store"
)

// ExpenseService runs the write path (validate, then append) and the read
// paths (filtered listing and analysis) over a single store.
type ExpenseService struct {
	registry  *core.Registry
	validator *core.Validator
	store     *store.Store
	reports   cache.Cache[core.Report]
	metrics   *metrics.Metrics
	log       *applog.StructuredLogger
}

// ExpenseServiceOption customises an ExpenseService.
type ExpenseServiceOption func(*ExpenseService)

// WithReportCache memoises analysis results per store revision.
func WithReportCache(c cache.Cache[core.Report]) ExpenseServiceOption {
	return func(s *ExpenseService) { s.reports = c }
}

func WithMetrics(m *metrics.Metrics) ExpenseServiceOption {
	return func(s *ExpenseService) { s.metrics = m }
}

func WithLogger(l *applog.Logger) ExpenseServiceOption {
	return func(s *ExpenseService) {
		s.log = applog.NewStructuredLogger(l.WithComponent(applog.ComponentExpense))
	}
}

// WithClock replaces the clock used to default missing dates.
func WithClock(now func() time.Time) ExpenseServiceOption {
	return func(s *ExpenseService) { s.validator.Now = now }
}

func NewExpenseService(reg *core.Registry, st *store.Store, opts ...ExpenseServiceOption) *ExpenseService {
	s := &ExpenseService{
		registry:  reg,
		validator: core.NewValidator(reg),
		store:     st,
		log:       applog.NewStructuredLogger(applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentExpense)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates c and appends it. On error the store is left unchanged.
func (s *ExpenseService) Create(ctx context.Context, c core.Candidate) (core.Expense, error) {
	e, err := s.validator.Validate(c)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ExpensesRejected.WithLabelValues(rejectReason(err)).Inc()
		}
		return core.Expense{}, err
	}
	s.store.Add(e)
	if s.metrics != nil {
		s.metrics.ExpensesCreated.Inc()
	}
	s.log.LogExpenseCreated(ctx, e.ID, e.Category, e.Amount.String(), e.Date)
	return e, nil
}

// List returns the stored expenses matching f in insertion order.
func (s *ExpenseService) List(_ context.Context, f core.Filter) []core.Expense {
	return core.Query(s.store.All(), f, s.registry)
}

// Analyze aggregates the whole store.
func (s *ExpenseService) Analyze(_ context.Context) core.Report {
	all := s.store.All()
	if s.reports == nil {
		return core.Aggregate(all, s.registry)
	}
	key := "rev:" + strconv.Itoa(len(all))
	if r, ok := s.reports.Get(key); ok {
		return r
	}
	r := core.Aggregate(all, s.registry)
	s.reports.Set(key, r)
	return r
}

// Categories lists the registry labels.
func (s *ExpenseService) Categories() []string {
	return s.registry.Labels()
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidCategory):
		return "invalid_category"
	case errors.Is(err, core.ErrInvalidAmount):
		return "invalid_amount"
	default:
		return "other"
	}
}

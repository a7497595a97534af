package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/metrics"
	"tracker/internal/storage"
)

// ExpenseAPI is the application surface the HTTP layer drives.
type ExpenseAPI interface {
	Create(ctx context.Context, c core.Candidate) (core.Expense, error)
	List(ctx context.Context, f core.Filter) []core.Expense
	Analyze(ctx context.Context) core.Report
	Categories() []string
}

// SummaryJournal reads back persisted summary emissions.
type SummaryJournal interface {
	ListSummaries(ctx context.Context, limit int) ([]storage.JournalEntry, error)
}

type Server struct {
	http.Server
	expenses    ExpenseAPI
	journal     SummaryJournal
	rateLimiter *rateLimiter
	logger      *applog.Logger
	httpLog     *applog.StructuredLogger
	metrics     *metrics.Metrics

	shutdownOnce sync.Once
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the base logger; each request gets a child carrying its id.
func WithLogger(l *applog.Logger) Option {
	return func(s *Server) { s.logger = l.WithComponent(applog.ComponentHTTP) }
}

// WithMetrics records flagged and rate-limited requests on m and mounts its
// registry at /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithSummaryJournal serves j at /summaries.
func WithSummaryJournal(j SummaryJournal) Option {
	return func(s *Server) { s.journal = j }
}

// WithRateLimit caps POST requests per client IP and minute.
func WithRateLimit(perMinute int) Option {
	return func(s *Server) {
		if perMinute > 0 {
			s.rateLimiter.limit = perMinute
		}
	}
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, api ExpenseAPI, opts ...Option) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		expenses:    api,
		rateLimiter: newRateLimiter(defaultRateLimit),
		logger:      applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.httpLog = applog.NewStructuredLogger(s.logger)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}
	mux.HandleFunc("/expenses", s.withMiddleware(s.handleExpenses))
	mux.HandleFunc("/expenses/analysis", s.withMiddleware(s.handleAnalysis))
	mux.HandleFunc("/categories", s.withMiddleware(s.handleCategories))
	mux.HandleFunc("/summaries", s.withMiddleware(s.handleSummaries))
	mux.HandleFunc("/", s.withMiddleware(handleNotFound))

	return s
}

// Shutdown stops the rate limiter cleanup and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds request ids, structured logging, security headers and
// rate limiting on POST.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ip := clientIP(r)
		requestID := generateRequestID()

		reqLogger := s.logger.With(applog.FieldRequestID, requestID, applog.FieldClientIP, ip)
		ctx := applog.NewContext(r.Context(), reqLogger)
		r = r.WithContext(ctx)

		w.Header().Set("X-Request-ID", requestID)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store")

		if reason := screenRequest(r); reason != "" {
			if s.metrics != nil {
				s.metrics.SuspiciousRequests.WithLabelValues(reason).Inc()
			}
			reqLogger.WarnContext(ctx, "Suspicious request",
				applog.FieldReason, reason,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				applog.FieldUserAgent, r.Header.Get("User-Agent"))
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		if r.Method == http.MethodPost && !s.rateLimiter.allow(ip) {
			if s.metrics != nil {
				s.metrics.RateLimited.Inc()
			}
			reqLogger.WarnContext(ctx, "Rate limit exceeded", applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
			rw.Header().Set("Retry-After", "60")
			writeError(rw, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
		} else {
			next(rw, r)
		}

		s.httpLog.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), ip)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// allowMethods answers 405 with an Allow header unless r uses one of methods.
func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

package http

import (
	"errors"
	"net/http"
	"strconv"

	"tracker/internal/core"
	applog "tracker/internal/log"
)

// handleExpenses serves POST (create) and GET (filtered list) on /expenses.
func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if r.Method == http.MethodPost {
		s.handleCreateExpense(w, r)
		return
	}
	s.handleListExpenses(w, r)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	c, err := parseCandidate(w, r)
	if err != nil {
		logger.WarnContext(ctx, "Malformed expense body", applog.FieldError, err.Error())
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	e, err := s.expenses.Create(ctx, c)
	switch {
	case errors.Is(err, core.ErrInvalidCategory):
		logger.InfoContext(ctx, "Expense rejected", applog.FieldCategory, c.Category, applog.FieldErrorType, applog.ErrorTypeValidation)
		writeError(w, http.StatusBadRequest, "Invalid or missing category")
		return
	case errors.Is(err, core.ErrInvalidAmount):
		logger.InfoContext(ctx, "Expense rejected", applog.FieldAmount, c.Amount, applog.FieldErrorType, applog.ErrorTypeValidation)
		writeError(w, http.StatusBadRequest, "Amount must be a positive number")
		return
	case err != nil:
		logger.ErrorContext(ctx, "Create expense failed", applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeSuccess(w, http.StatusOK, newExpenseDTO(e))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	f := parseFilter(r.URL.Query())
	items := s.expenses.List(r.Context(), f)
	writeSuccess(w, http.StatusOK, newExpenseDTOs(items))
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeSuccess(w, http.StatusOK, newReportDTO(s.expenses.Analyze(r.Context())))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeSuccess(w, http.StatusOK, s.expenses.Categories())
}

const (
	defaultSummaryLimit = 50
	maxSummaryLimit     = 500
)

// handleSummaries reads back the summary journal, newest first.
func (s *Server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	if s.journal == nil {
		writeError(w, http.StatusNotFound, "Summary journal is not enabled")
		return
	}

	limit := defaultSummaryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Limit must be a positive integer")
			return
		}
		limit = min(n, maxSummaryLimit)
	}

	ctx := r.Context()
	entries, err := s.journal.ListSummaries(ctx, limit)
	if err != nil {
		applog.FromContext(ctx).ErrorContext(ctx, "List summaries failed",
			applog.FieldError, err.Error(),
			applog.FieldErrorType, applog.ErrorTypeDatabase)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeSuccess(w, http.StatusOK, newSummaryDTOs(entries))
}

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"tracker/internal/core"
	"tracker/internal/storage"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type successEnvelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type errorEnvelope struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// JSONResponseBuilder provides a fluent API for the {status, data|error}
// envelope every endpoint returns.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	payload    any
}

// NewJSONResponse creates a builder with a 200 status and an empty success
// payload.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
		payload:    successEnvelope{Status: statusSuccess},
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

func (b *JSONResponseBuilder) Success(data any) *JSONResponseBuilder {
	b.payload = successEnvelope{Status: statusSuccess, Data: data}
	return b
}

func (b *JSONResponseBuilder) Error(message string) *JSONResponseBuilder {
	b.payload = errorEnvelope{Status: statusError, Error: message}
	return b
}

// Write sends headers, status and the encoded envelope.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	body, err := json.Marshal(b.payload)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		http.Error(w, `{"status":"error","error":"Internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(body)
}

func writeSuccess(w http.ResponseWriter, code int, data any) {
	NewJSONResponse().Status(code).Success(data).Write(w)
}

func writeError(w http.ResponseWriter, code int, message string) {
	NewJSONResponse().Status(code).Error(message).Write(w)
}

type expenseDTO struct {
	ID       string  `json:"id"`
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
}

type reportDTO struct {
	CategoryTotals map[string]float64 `json:"categoryTotals"`
	MonthlyTotals  map[string]float64 `json:"monthlyTotals"`
}

func newExpenseDTO(e core.Expense) expenseDTO {
	return expenseDTO{
		ID:       e.ID,
		Category: e.Category,
		Amount:   e.Amount.InexactFloat64(),
		Date:     e.Date,
	}
}

// newExpenseDTOs never returns nil so empty results encode as [].
func newExpenseDTOs(items []core.Expense) []expenseDTO {
	out := make([]expenseDTO, 0, len(items))
	for _, e := range items {
		out = append(out, newExpenseDTO(e))
	}
	return out
}

func newReportDTO(r core.Report) reportDTO {
	dto := reportDTO{
		CategoryTotals: make(map[string]float64, len(r.CategoryTotals)),
		MonthlyTotals:  make(map[string]float64, len(r.MonthlyTotals)),
	}
	for k, v := range r.CategoryTotals {
		dto.CategoryTotals[k] = v.InexactFloat64()
	}
	for k, v := range r.MonthlyTotals {
		dto.MonthlyTotals[k] = v.InexactFloat64()
	}
	return dto
}

type summaryDTO struct {
	ID        int64   `json:"id"`
	Label     string  `json:"label"`
	Total     float64 `json:"total"`
	Formatted string  `json:"formatted"`
	FiredAt   string  `json:"firedAt"`
	EmittedAt string  `json:"emittedAt"`
}

func newSummaryDTOs(entries []storage.JournalEntry) []summaryDTO {
	out := make([]summaryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, summaryDTO{
			ID:        e.ID,
			Label:     e.Summary.Label,
			Total:     e.Summary.Total.InexactFloat64(),
			Formatted: core.FormatDollars(e.Summary.Total),
			FiredAt:   e.Summary.FiredAt.UTC().Format(time.RFC3339),
			EmittedAt: e.EmittedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

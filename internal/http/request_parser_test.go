package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"tracker/internal/core"
)

func TestStringValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", " Food ", "Food"},
		{"number", json.Number("12.50"), "12.50"},
		{"bool", true, "true"},
		{"null", nil, ""},
		{"object", map[string]any{"a": 1}, ""},
		{"array", []any{1}, ""},
		{"control chars", "Fo\x00od", "Food"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stringValue(tt.in); got != tt.want {
				t.Errorf("stringValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseCandidate(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        core.Candidate
		wantErr     bool
	}{
		{
			name:        "json",
			contentType: "application/json",
			body:        `{"category":"Food","amount":10,"date":"2024-03-01"}`,
			want:        core.Candidate{Category: "Food", Amount: "10", Date: "2024-03-01"},
		},
		{
			name:        "json with charset",
			contentType: "application/json; charset=utf-8",
			body:        `{"category":"Food","amount":"1e2"}`,
			want:        core.Candidate{Category: "Food", Amount: "1e2"},
		},
		{
			name: "json without content type",
			body: `{"amount":0.1}`,
			want: core.Candidate{Amount: "0.1"},
		},
		{
			name:        "form",
			contentType: "application/x-www-form-urlencoded",
			body:        "category=Health&amount=7.25",
			want:        core.Candidate{Category: "Health", Amount: "7.25"},
		},
		{
			name:        "empty body",
			contentType: "application/json",
			want:        core.Candidate{},
		},
		{
			name:        "json null",
			contentType: "application/json",
			body:        `null`,
			wantErr:     true,
		},
		{
			name:        "malformed",
			contentType: "application/json",
			body:        `{`,
			wantErr:     true,
		},
		{
			name:        "too large",
			contentType: "application/json",
			body:        `{"category":"` + strings.Repeat("x", maxBodyBytes) + `"}`,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if tt.body == "" {
				req = httptest.NewRequest(http.MethodPost, "/expenses", nil)
			} else {
				req = httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(tt.body))
			}
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}

			got, err := parseCandidate(httptest.NewRecorder(), req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseCandidate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseCandidate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseFilter(t *testing.T) {
	q := url.Values{}
	q.Set("category", " Food ")
	q.Set("startDate", "2024-01-01")
	q.Set("endDate", "2024-12-31")

	got := parseFilter(q)
	want := core.Filter{Category: "Food", StartDate: "2024-01-01", EndDate: "2024-12-31"}
	if got != want {
		t.Errorf("parseFilter() = %+v, want %+v", got, want)
	}

	if got := parseFilter(url.Values{}); got != (core.Filter{}) {
		t.Errorf("parseFilter(empty) = %+v, want zero", got)
	}
}

// Package http exposes the expense tracker as a JSON API.
//
// This file decodes request bodies and query strings into domain inputs.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"tracker/internal/core"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// parseCandidate reads a create request from a JSON object or a form body.
// Field values are passed through as text; validation happens in core. An
// empty body is an empty candidate.
func parseCandidate(w http.ResponseWriter, r *http.Request) (core.Candidate, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return core.Candidate{}, nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return core.Candidate{}, fmt.Errorf("parse form: %w", err)
		}
		return candidateFromForm(r.PostForm), nil
	default:
		return decodeJSONCandidate(r)
	}
}

func decodeJSONCandidate(r *http.Request) (core.Candidate, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return core.Candidate{}, nil
		}
		return core.Candidate{}, fmt.Errorf("decode json: %w", err)
	}
	if body == nil {
		return core.Candidate{}, errors.New("request body must be a JSON object")
	}
	return core.Candidate{
		Category: stringValue(body["category"]),
		Amount:   stringValue(body["amount"]),
		Date:     stringValue(body["date"]),
	}, nil
}

func candidateFromForm(form url.Values) core.Candidate {
	return core.Candidate{
		Category: sanitizeInput(form.Get("category")),
		Amount:   sanitizeInput(form.Get("amount")),
		Date:     sanitizeInput(form.Get("date")),
	}
}

// stringValue renders a decoded JSON value as the text core validates.
// Booleans keep their literal so they fail numeric parsing; objects, arrays
// and null become empty.
func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return sanitizeInput(t)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// parseFilter reads category, startDate and endDate from the query string.
func parseFilter(q url.Values) core.Filter {
	return core.Filter{
		Category:  sanitizeInput(q.Get("category")),
		StartDate: sanitizeInput(q.Get("startDate")),
		EndDate:   sanitizeInput(q.Get("endDate")),
	}
}

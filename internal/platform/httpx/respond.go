// Package httpx holds the JSON and problem+json plumbing shared by every
// HTTP handler.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// MaxBodyBytes caps request bodies accepted by DecodeJSON.
const MaxBodyBytes = 1 << 20

// ProblemDetail is the RFC7807 error body.
type ProblemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	write(w, status, data)
}

// Problem writes an application/problem+json body. Detail is omitted when empty.
func Problem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	write(w, status, ProblemDetail{
		Type:   "about:blank",
		Title:  title,
		Status: status,
		Detail: detail,
	})
}

func write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// DecodeJSON reads exactly one JSON document from the request body into
// target. Unknown fields, trailing data and bodies over MaxBodyBytes are
// validation errors.
func DecodeJSON(r *http.Request, target any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes+1))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return Invalid(errors.New("request body is empty"))
		}
		return Invalid(fmt.Errorf("malformed request body: %v", err))
	}
	if dec.InputOffset() > MaxBodyBytes {
		return Invalid(errors.New("request body too large"))
	}
	if dec.More() {
		return Invalid(errors.New("request body must hold a single JSON object"))
	}
	return nil
}

// IDParam parses a positive integer chi URL parameter. Malformed ids are
// reported as not found so they look the same as ids owned by someone else.
func IDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", ErrNotFound, name)
	}
	return id, nil
}

// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrDuplicate       = errors.New("duplicate entry")
	ErrValidation      = errors.New("validation failed")
	ErrUpstream        = errors.New("upstream provider failed")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrPaymentRequired = errors.New("active subscription required")
)

// MaxUpstreamDetail caps provider messages surfaced to callers.
const MaxUpstreamDetail = 200

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrUpstream):
		Problem(w, http.StatusBadGateway, "Upstream Failure", upstreamDetail(err))
	case errors.Is(err, ErrPaymentRequired):
		Problem(w, http.StatusPaymentRequired, "Payment Required", err.Error())
	case errors.Is(err, ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

// Invalid wraps a validator error (or any message-bearing error) as ErrValidation.
func Invalid(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(fields, "; "))
	}
	return fmt.Errorf("%w: %s", ErrValidation, err.Error())
}

// UpstreamError carries the caller-facing detail of a provider failure. The
// provider message inside Detail is already capped at MaxUpstreamDetail runes.
type UpstreamError struct {
	Detail string
}

func (e *UpstreamError) Error() string { return ErrUpstream.Error() + ": " + e.Detail }

func (e *UpstreamError) Unwrap() error { return ErrUpstream }

// Upstream wraps a provider error as ErrUpstream. Only the provider message
// is truncated; prefix is kept whole.
func Upstream(prefix string, err error) error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	msg = Truncate(msg, MaxUpstreamDetail)
	if prefix != "" {
		msg = prefix + ": " + msg
	}
	return &UpstreamError{Detail: msg}
}

func upstreamDetail(err error) string {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Detail
	}
	return strings.TrimPrefix(err.Error(), ErrUpstream.Error()+": ")
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

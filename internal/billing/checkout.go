package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultStripeEndpoint is the Checkout Sessions REST endpoint.
const DefaultStripeEndpoint = "https://api.stripe.com/v1/checkout/sessions"

// CheckoutRequest describes the subscription purchase to start.
type CheckoutRequest struct {
	OwnerID string
	Email   string
	PriceID string
}

// CheckoutProvider creates hosted checkout sessions and returns their URL.
type CheckoutProvider interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error)
}

// StripeCheckout talks to the Stripe Checkout Sessions API.
type StripeCheckout struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
	Endpoint   string
	Client     *http.Client
}

// NewStripeCheckout constructs a StripeCheckout with a bounded http client.
func NewStripeCheckout(secretKey, successURL, cancelURL string) *StripeCheckout {
	return &StripeCheckout{
		SecretKey:  secretKey,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		Endpoint:   DefaultStripeEndpoint,
		Client:     &http.Client{Timeout: 15 * time.Second},
	}
}

type stripeSession struct {
	URL   string `json:"url"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateCheckout implements CheckoutProvider.
func (s *StripeCheckout) CreateCheckout(ctx context.Context, req CheckoutRequest) (string, error) {
	if s.SecretKey == "" {
		return "", errors.New("STRIPE_SECRET_KEY not configured")
	}
	form := url.Values{}
	form.Set("mode", "subscription")
	form.Set("line_items[0][price]", req.PriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("client_reference_id", req.OwnerID)
	form.Set("success_url", s.SuccessURL)
	form.Set("cancel_url", s.CancelURL)
	if req.Email != "" {
		form.Set("customer_email", req.Email)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	httpReq.SetBasicAuth(s.SecretKey, "")
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Idempotency-Key", uuid.NewString())

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", err
	}
	var session stripeSession
	if err := json.Unmarshal(body, &session); err != nil {
		return "", fmt.Errorf("decode checkout session (status %d): %w", res.StatusCode, err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		if session.Error != nil && session.Error.Message != "" {
			return "", errors.New(session.Error.Message)
		}
		return "", fmt.Errorf("stripe returned status %d", res.StatusCode)
	}
	if session.URL == "" {
		return "", errors.New("checkout session has no url")
	}
	return session.URL, nil
}

var _ CheckoutProvider = (*StripeCheckout)(nil)

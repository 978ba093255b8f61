package insights

import (
	"context"
	"errors"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/invoice-manager/invoice-manager/internal/platform/httpx"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrMissingAPIKey is returned when the provider has no credentials.
var ErrMissingAPIKey = errors.New("Google API Key not configured")

// TextGenerator produces text for a prompt with the named model.
type TextGenerator interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// GeminiGenerator calls the Gemini API.
type GeminiGenerator struct {
	apiKey string

	once   sync.Once
	client *genai.Client
	err    error
}

// NewGeminiGenerator returns a generator for apiKey. The client is created on
// first use so a missing key only fails analysis requests.
func NewGeminiGenerator(apiKey string) *GeminiGenerator {
	return &GeminiGenerator{apiKey: strings.TrimSpace(apiKey)}
}

// Generate implements TextGenerator. Every failure is reported as an upstream
// error carrying the provider message.
func (g *GeminiGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", httpx.Upstream("", ErrMissingAPIKey)
	}
	g.once.Do(func() {
		g.client, g.err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	if g.err != nil {
		return "", httpx.Upstream("create genai client", g.err)
	}
	if model == "" {
		model = DefaultModel
	}
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", httpx.Upstream("", err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", httpx.Upstream("", errors.New("empty response from model"))
	}
	return text, nil
}

var _ TextGenerator = (*GeminiGenerator)(nil)

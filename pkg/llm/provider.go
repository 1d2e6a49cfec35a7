package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Provider names accepted by New.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
	ProviderAnaconda  = "anaconda"
)

// DefaultTimeout bounds a single Generate call when none is configured.
const DefaultTimeout = 60 * time.Second

// ErrNoModels is returned when a provider lists no usable model.
var ErrNoModels = errors.New("no usable model")

// Provider turns a prompt into a generation.
//
// Ordinary backend failures (timeouts, unavailable models, HTTP errors) are
// reported as descriptive Text rather than as an error. An error means the
// call could not be attempted at all.
type Provider interface {
	Generate(ctx context.Context, prompt string) (Generation, error)
	Name() string
}

// ModelLister is implemented by providers that can enumerate models.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// Generation is the result of one model call.
type Generation struct {
	Text string
	// Raw holds the provider's JSON payload when raw output was requested.
	Raw json.RawMessage
}

// Structured reports whether the generation carries a raw payload.
func (g Generation) Structured() bool {
	return len(g.Raw) > 0
}

// Config selects and configures a provider.
type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	// Models overrides the advertised model list for providers without a listing endpoint.
	Models    []string
	Timeout   time.Duration
	MaxTokens int
	// IncludeRaw attaches the provider's raw JSON payload to each generation.
	IncludeRaw bool
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{}
}

// failureText renders a backend failure the way it is shown to users.
func failureText(display string, err error) string {
	if isTimeout(err) {
		return fmt.Sprintf("The request to %s timed out. Please try again.", display)
	}
	return fmt.Sprintf("An error occurred with %s: %v", display, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func firstOr(models []string, fallback string) string {
	if len(models) > 0 {
		return models[0]
	}
	return fallback
}

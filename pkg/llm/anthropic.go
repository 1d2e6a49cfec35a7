package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"
)

const anthropicMaxTokens = 512

// DefaultAnthropicModels is advertised when no model list is configured.
var DefaultAnthropicModels = []string{"claude-opus-4", "claude-sonnet-4"}

// AnthropicProvider calls the Anthropic Messages API.
type AnthropicProvider struct {
	client     anthropic.Client
	model      string
	models     []string
	maxTokens  int
	includeRaw bool
	cfg        Config
	logger     zerolog.Logger
}

// NewAnthropic creates an Anthropic provider. An empty model selects the first listed one.
func NewAnthropic(cfg Config) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is not set")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.timeout()),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	p := &AnthropicProvider{
		client:     anthropic.NewClient(opts...),
		models:     cfg.Models,
		maxTokens:  cfg.MaxTokens,
		includeRaw: cfg.IncludeRaw,
		cfg:        cfg,
		logger:     cfg.Logger,
	}
	if len(p.models) == 0 {
		p.models = DefaultAnthropicModels
	}
	if p.maxTokens <= 0 {
		p.maxTokens = anthropicMaxTokens
	}
	p.model = cfg.Model
	if p.model == "" {
		p.model = firstOr(p.models, "claude-3-opus-20240229")
	}

	return p, nil
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return ProviderAnthropic
}

// Model returns the selected model.
func (p *AnthropicProvider) Model() string {
	return p.model
}

// ListModels returns the configured model list.
func (p *AnthropicProvider) ListModels(context.Context) ([]string, error) {
	out := make([]string, len(p.models))
	copy(out, p.models)
	return out, nil
}

// Generate sends the prompt as a single user message.
func (p *AnthropicProvider) Generate(ctx context.Context, prompt string) (Generation, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.timeout())
	defer cancel()

	p.logger.Debug().Str("model", p.model).Int("max_tokens", p.maxTokens).Msg("Calling Anthropic")

	response, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(p.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		p.logger.Error().Err(err).Str("model", p.model).Msg("Anthropic call failed")

		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return Generation{Text: fmt.Sprintf("Model '%s' is not available to your Anthropic account. Please choose another model.", p.model)}, nil
		}
		return Generation{Text: failureText("Anthropic", err)}, nil
	}

	text := ""
	for _, block := range response.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}

	gen := Generation{Text: strings.TrimSpace(text)}
	if p.includeRaw {
		gen.Raw = json.RawMessage(response.RawJSON())
	}
	return gen, nil
}

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"
)

// OpenAIProvider calls the OpenAI Chat Completions API.
type OpenAIProvider struct {
	client     openai.Client
	model      string
	maxTokens  int
	includeRaw bool
	cfg        Config
	logger     zerolog.Logger
}

// NewOpenAI creates an OpenAI provider. Model resolution happens in New.
func NewOpenAI(cfg Config) *OpenAIProvider {
	opts := []option.RequestOption{
		option.WithRequestTimeout(cfg.timeout()),
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &OpenAIProvider{
		client:     openai.NewClient(opts...),
		model:      cfg.Model,
		maxTokens:  cfg.MaxTokens,
		includeRaw: cfg.IncludeRaw,
		cfg:        cfg,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

// Model returns the selected model.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// ListModels returns chat-capable model ids.
func (p *OpenAIProvider) ListModels(ctx context.Context) ([]string, error) {
	page, err := p.client.Models.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list OpenAI models: %w", err)
	}

	models := []string{}
	for _, m := range page.Data {
		if strings.Contains(m.ID, "gpt") || strings.Contains(m.ID, "chat") {
			models = append(models, m.ID)
		}
	}
	return models, nil
}

// Generate sends the prompt as a single user message.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (Generation, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.timeout())
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if p.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(p.maxTokens))
	}

	p.logger.Debug().Str("model", p.model).Msg("Calling OpenAI")

	response, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		p.logger.Error().Err(err).Str("model", p.model).Msg("OpenAI call failed")
		return Generation{Text: failureText("OpenAI", err)}, nil
	}

	if len(response.Choices) == 0 {
		return Generation{Text: failureText("OpenAI", fmt.Errorf("no response choices returned"))}, nil
	}

	gen := Generation{Text: strings.TrimSpace(response.Choices[0].Message.Content)}
	if p.includeRaw {
		gen.Raw = json.RawMessage(response.RawJSON())
	}
	return gen, nil
}

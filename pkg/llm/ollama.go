package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// DefaultOllamaURL is the local Ollama endpoint.
const DefaultOllamaURL = "http://localhost:11434"

// OllamaProvider calls a local Ollama server.
type OllamaProvider struct {
	baseURL    string
	model      string
	includeRaw bool
	client     *http.Client
	cfg        Config
	logger     zerolog.Logger
}

// NewOllama creates an Ollama provider. Model resolution happens in New.
func NewOllama(cfg Config) *OllamaProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	return &OllamaProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      cfg.Model,
		includeRaw: cfg.IncludeRaw,
		client:     cfg.httpClient(),
		cfg:        cfg,
		logger:     cfg.Logger,
	}
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return ProviderOllama
}

// Model returns the selected model.
func (p *OllamaProvider) Model() string {
	return p.model
}

// ListModels returns the locally pulled model names.
func (p *OllamaProvider) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}

	body, err := p.do(req)
	if err != nil {
		return nil, err
	}

	models := []string{}
	for _, name := range gjson.GetBytes(body, "models.#.name").Array() {
		if name.String() != "" {
			models = append(models, name.String())
		}
	}
	return models, nil
}

// Generate runs a non-streaming completion.
func (p *OllamaProvider) Generate(ctx context.Context, prompt string) (Generation, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.timeout())
	defer cancel()

	jsonData, err := json.Marshal(ollamaGenerateRequest{
		Model:  p.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return Generation{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return Generation{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	p.logger.Debug().Str("model", p.model).Msg("Calling Ollama")

	body, err := p.do(req)
	if err != nil {
		p.logger.Error().Err(err).Str("model", p.model).Msg("Ollama call failed")
		return Generation{Text: failureText("Ollama", err)}, nil
	}

	gen := Generation{Text: gjson.GetBytes(body, "response").String()}
	if p.includeRaw && gjson.ValidBytes(body) {
		gen.Raw = json.RawMessage(body)
	}
	return gen, nil
}

func (p *OllamaProvider) do(req *http.Request) ([]byte, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama connection failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status: %d", resp.StatusCode)
	}
	return body, nil
}

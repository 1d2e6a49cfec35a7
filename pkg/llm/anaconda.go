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

// DefaultAnacondaURL is the local AI Navigator API server.
const DefaultAnacondaURL = "http://127.0.0.1:8080"

// AnacondaProvider calls a local Anaconda AI Navigator server.
type AnacondaProvider struct {
	baseURL    string
	apiKey     string
	model      string
	includeRaw bool
	client     *http.Client
	cfg        Config
	logger     zerolog.Logger
}

// NewAnaconda creates an Anaconda provider after a successful health check.
func NewAnaconda(ctx context.Context, cfg Config) (*AnacondaProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultAnacondaURL
	}

	p := &AnacondaProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		includeRaw: cfg.IncludeRaw,
		client:     cfg.httpClient(),
		cfg:        cfg,
		logger:     cfg.Logger,
	}

	if err := p.Health(ctx); err != nil {
		return nil, fmt.Errorf("anaconda health check failed: %w", err)
	}
	return p, nil
}

// Name returns the provider name
func (p *AnacondaProvider) Name() string {
	return ProviderAnaconda
}

// Model returns the selected model.
func (p *AnacondaProvider) Model() string {
	return p.model
}

// Health probes the server's health endpoint.
func (p *AnacondaProvider) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	_, err = p.do(req)
	return err
}

// ListModels returns model identifiers from any of the listing shapes the
// server is known to produce, deduplicated in order.
func (p *AnacondaProvider) ListModels(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/models", nil)
	if err != nil {
		return nil, err
	}
	p.authorize(req)

	body, err := p.do(req)
	if err != nil {
		return nil, fmt.Errorf("could not list models from Anaconda AI Navigator: %w", err)
	}
	return parseAnacondaModels(body), nil
}

func parseAnacondaModels(body []byte) []string {
	root := gjson.ParseBytes(body)

	var entries []gjson.Result
	switch {
	case root.IsArray():
		entries = root.Array()
	case root.Get("data").IsArray():
		entries = root.Get("data").Array()
	case root.Get("models").IsArray():
		entries = root.Get("models").Array()
	}

	seen := make(map[string]bool, len(entries))
	models := []string{}
	for _, entry := range entries {
		id := ""
		if entry.IsObject() {
			for _, key := range []string{"id", "name", "model", "path"} {
				if v := entry.Get(key).String(); v != "" {
					id = v
					break
				}
			}
		} else {
			id = entry.String()
		}
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		models = append(models, id)
	}
	return models
}

// Generate posts the prompt to the completion endpoint.
func (p *AnacondaProvider) Generate(ctx context.Context, prompt string) (Generation, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.timeout())
	defer cancel()

	jsonData, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return Generation{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/completion", bytes.NewReader(jsonData))
	if err != nil {
		return Generation{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Connection", "close")
	p.authorize(req)

	p.logger.Debug().Str("model", p.model).Msg("Calling Anaconda")

	body, err := p.do(req)
	if err != nil {
		p.logger.Error().Err(err).Msg("Anaconda call failed")
		return Generation{Text: failureText("Anaconda", err)}, nil
	}

	gen := Generation{Text: completionText(body)}
	if p.includeRaw && gjson.ValidBytes(body) {
		gen.Raw = json.RawMessage(body)
	}
	return gen, nil
}

// completionText extracts the reply from content, text, or choices[0].text,
// falling back to the raw body.
func completionText(body []byte) string {
	if v := gjson.GetBytes(body, "content"); v.Exists() {
		return strings.TrimSpace(v.String())
	}
	if v := gjson.GetBytes(body, "text"); v.Exists() {
		return strings.TrimSpace(v.String())
	}
	if choices := gjson.GetBytes(body, "choices"); choices.IsArray() && len(choices.Array()) > 0 {
		return strings.TrimSpace(choices.Get("0.text").String())
	}
	return string(body)
}

func (p *AnacondaProvider) authorize(req *http.Request) {
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
}

func (p *AnacondaProvider) do(req *http.Request) ([]byte, error) {
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%d %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

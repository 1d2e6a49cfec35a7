package llm

import (
	"context"
	"fmt"
	"strings"
)

// Fallback models used when a provider lists nothing.
const (
	fallbackOpenAIModel   = "gpt-3.5-turbo"
	fallbackOllamaModel   = "llama2"
	fallbackAnacondaModel = "meta-llama/Llama-3-8b-Instruct"
)

// Providers lists the supported provider names.
func Providers() []string {
	return []string{ProviderAnaconda, ProviderAnthropic, ProviderOpenAI, ProviderOllama}
}

// New builds the configured provider. When no model is set, the first listed
// model is used, or the provider's fallback if listing fails or returns nothing.
func New(ctx context.Context, cfg Config) (Provider, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if name == "" {
		name = ProviderOpenAI
	}

	switch name {
	case ProviderAnthropic:
		return NewAnthropic(cfg)

	case ProviderOpenAI:
		p := NewOpenAI(cfg)
		if p.model == "" {
			p.model = resolveModel(ctx, cfg, p, fallbackOpenAIModel)
		}
		return p, nil

	case ProviderOllama:
		p := NewOllama(cfg)
		if p.model == "" {
			p.model = resolveModel(ctx, cfg, p, fallbackOllamaModel)
		}
		return p, nil

	case ProviderAnaconda:
		p, err := NewAnaconda(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if p.model == "" {
			p.model = resolveModel(ctx, cfg, p, fallbackAnacondaModel)
		}
		return p, nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

func resolveModel(ctx context.Context, cfg Config, lister ModelLister, fallback string) string {
	models, err := lister.ListModels(ctx)
	if err != nil {
		cfg.Logger.Warn().Err(err).Str("fallback", fallback).Msg("Could not list models")
		return fallback
	}
	return firstOr(models, fallback)
}

package llm

import (
	"context"
	"fmt"
)

// AbortedText is returned when a gate declines a call.
const AbortedText = "Aborted by user due to token count."

// Gate decides whether a prompt may be sent.
type Gate interface {
	Allow(ctx context.Context, prompt string) (bool, error)
}

// GatedProvider consults a Gate before each call.
type GatedProvider struct {
	inner Provider
	gate  Gate
}

// WithTokenGate wraps p so that every prompt passes gate first.
func WithTokenGate(p Provider, gate Gate) *GatedProvider {
	return &GatedProvider{inner: p, gate: gate}
}

// Name returns the wrapped provider's name.
func (g *GatedProvider) Name() string {
	return g.inner.Name()
}

// Generate calls the wrapped provider only when the gate allows it.
func (g *GatedProvider) Generate(ctx context.Context, prompt string) (Generation, error) {
	ok, err := g.gate.Allow(ctx, prompt)
	if err != nil {
		return Generation{}, fmt.Errorf("token gate: %w", err)
	}
	if !ok {
		return Generation{Text: AbortedText}, nil
	}
	return g.inner.Generate(ctx, prompt)
}

// ListModels delegates to the wrapped provider.
func (g *GatedProvider) ListModels(ctx context.Context) ([]string, error) {
	lister, ok := g.inner.(ModelLister)
	if !ok {
		return nil, fmt.Errorf("provider %s cannot list models", g.inner.Name())
	}
	return lister.ListModels(ctx)
}

package llm

import (
	"context"
	"errors"
)

// MockProvider returns the same generation for every prompt and records prompts.
type MockProvider struct {
	Response Generation
	Err      error
	Models   []string
	Prompts  []string
}

// NewMockProvider creates a mock that answers with text.
func NewMockProvider(text string) *MockProvider {
	return &MockProvider{Response: Generation{Text: text}}
}

// Name returns "mock".
func (m *MockProvider) Name() string { return "mock" }

// Generate records the prompt and returns the configured response.
func (m *MockProvider) Generate(_ context.Context, prompt string) (Generation, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return Generation{}, m.Err
	}
	return m.Response, nil
}

// ListModels returns Models.
func (m *MockProvider) ListModels(context.Context) ([]string, error) {
	return m.Models, nil
}

// ErrScriptExhausted is returned once a ScriptedProvider runs out of responses.
var ErrScriptExhausted = errors.New("scripted provider: no more responses")

// ScriptedProvider returns its responses in order.
type ScriptedProvider struct {
	responses []Generation
	index     int
	Prompts   []string
}

// NewScriptedProvider creates a provider answering with texts in order.
func NewScriptedProvider(texts ...string) *ScriptedProvider {
	responses := make([]Generation, len(texts))
	for i, text := range texts {
		responses[i] = Generation{Text: text}
	}
	return &ScriptedProvider{responses: responses}
}

// Name returns "scripted".
func (s *ScriptedProvider) Name() string { return "scripted" }

// AddResponse appends a generation to the script.
func (s *ScriptedProvider) AddResponse(gen Generation) *ScriptedProvider {
	s.responses = append(s.responses, gen)
	return s
}

// Generate returns the next scripted response.
func (s *ScriptedProvider) Generate(_ context.Context, prompt string) (Generation, error) {
	s.Prompts = append(s.Prompts, prompt)
	if s.index >= len(s.responses) {
		return Generation{}, ErrScriptExhausted
	}
	gen := s.responses[s.index]
	s.index++
	return gen, nil
}

// Reset rewinds the script.
func (s *ScriptedProvider) Reset() {
	s.index = 0
	s.Prompts = nil
}

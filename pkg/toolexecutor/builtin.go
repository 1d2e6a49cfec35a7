package toolexecutor

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/harun/agentbuilder/pkg/formatter"
)

// Built-in tool names.
const (
	ToolEcho           = "echo"
	ToolFormatResponse = "format_response"
	ToolTokenCounter   = "token_counter"
)

// ProceedPrompt is asked by the token counter before an LLM call.
const ProceedPrompt = "Proceed with LLM call? (y/n): "

// BuiltinNames lists the tools every executor starts with.
func BuiltinNames() []string {
	return []string{ToolEcho, ToolFormatResponse, ToolTokenCounter}
}

// BuiltinConfig configures the built-in tools.
type BuiltinConfig struct {
	Formatter    formatter.Formatter
	TokenCounter TokenCounterConfig
}

// RegisterBuiltins adds the built-in tools whose names are not taken yet.
func RegisterBuiltins(reg *Registry, cfg BuiltinConfig) error {
	fmtr := cfg.Formatter
	if fmtr == nil {
		fmtr = formatter.Default
	}

	builtins := map[string]Tool{
		ToolEcho:           Echo(),
		ToolFormatResponse: FormatResponse(fmtr),
		ToolTokenCounter:   NewTokenCounter(cfg.TokenCounter),
	}

	for _, name := range BuiltinNames() {
		if reg.Has(name) {
			continue
		}
		if err := reg.Register(name, builtins[name]); err != nil {
			return err
		}
	}
	return nil
}

// Echo returns a tool that repeats its input.
func Echo() Tool {
	return Describe(ToolFunc(func(_ context.Context, input string, _ map[string]any) (any, error) {
		return "Echo: " + input, nil
	}), Definition{
		Name:        ToolEcho,
		Description: "Echo the input back",
	})
}

// FormatResponse returns a tool that renders its input with f.
func FormatResponse(f formatter.Formatter) Tool {
	return Describe(ToolFunc(func(_ context.Context, input string, _ map[string]any) (any, error) {
		return f.Format(input), nil
	}), Definition{
		Name:        ToolFormatResponse,
		Description: "Format a response for display",
	})
}

// Tokenizer splits text into tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// TokenizerFunc adapts a function to Tokenizer.
type TokenizerFunc func(text string) []string

// Tokenize calls f.
func (f TokenizerFunc) Tokenize(text string) []string { return f(text) }

// WhitespaceTokenizer splits on runs of whitespace.
var WhitespaceTokenizer Tokenizer = TokenizerFunc(strings.Fields)

// TokenCounterConfig configures a TokenCounter.
type TokenCounterConfig struct {
	Tokenizer Tokenizer
	// Writer receives the "Token count: N" line. Defaults to io.Discard.
	Writer    io.Writer
	Confirmer Confirmer
	// Interactive makes the counter ask before proceeding. The "interactive"
	// context key overrides it per call.
	Interactive bool
}

// TokenCounter counts tokens and optionally asks whether to proceed.
type TokenCounter struct {
	tokenizer   Tokenizer
	writer      io.Writer
	confirmer   Confirmer
	interactive bool
}

// NewTokenCounter creates a token counter with defaults filled in.
func NewTokenCounter(cfg TokenCounterConfig) *TokenCounter {
	tc := &TokenCounter{
		tokenizer:   cfg.Tokenizer,
		writer:      cfg.Writer,
		confirmer:   cfg.Confirmer,
		interactive: cfg.Interactive,
	}
	if tc.tokenizer == nil {
		tc.tokenizer = WhitespaceTokenizer
	}
	if tc.writer == nil {
		tc.writer = io.Discard
	}
	return tc
}

// Count returns the number of tokens in text.
func (t *TokenCounter) Count(text string) int {
	return len(t.tokenizer.Tokenize(text))
}

// Run prints the count and returns whether to proceed as a bool.
func (t *TokenCounter) Run(ctx context.Context, input string, toolCtx map[string]any) (any, error) {
	interactive := t.interactive
	if v, ok := toolCtx["interactive"].(bool); ok {
		interactive = v
	}
	return t.check(ctx, input, interactive)
}

// Allow runs the same check with the configured interactivity. It lets the
// counter gate LLM calls directly.
func (t *TokenCounter) Allow(ctx context.Context, prompt string) (bool, error) {
	return t.check(ctx, prompt, t.interactive)
}

func (t *TokenCounter) check(ctx context.Context, text string, interactive bool) (bool, error) {
	fmt.Fprintf(t.writer, "Token count: %d\n", t.Count(text))

	if !interactive {
		return true, nil
	}
	if t.confirmer == nil {
		return false, fmt.Errorf("token counter is interactive but has no confirmer")
	}
	return t.confirmer.Confirm(ctx, ProceedPrompt)
}

// Definition implements Describer.
func (t *TokenCounter) Definition() Definition {
	return Definition{
		Name:        ToolTokenCounter,
		Description: "Count tokens and confirm before an LLM call",
		ContextSchema: []ContextParameter{
			{Name: "interactive", Type: "boolean", Description: "Ask for confirmation before proceeding"},
		},
	}
}

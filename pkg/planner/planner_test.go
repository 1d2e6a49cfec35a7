package planner

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harun/agentbuilder/pkg/action"
	"github.com/harun/agentbuilder/pkg/fault"
	"github.com/harun/agentbuilder/pkg/llm"
)

type staticContext string

func (s staticContext) Context() string { return string(s) }

func TestClassify(t *testing.T) {
	known := toolSet(DefaultKnownTools)

	tests := []struct {
		name     string
		text     string
		expected action.Action
	}{
		{
			name:     "tool prefix",
			text:     "echo: hello world",
			expected: action.ToolInvocation{Tool: "echo", InputText: "hello world"},
		},
		{
			name:     "prefix is trimmed and lower-cased",
			text:     "  Format_Response :  **bold**  ",
			expected: action.ToolInvocation{Tool: "format_response", InputText: "**bold**"},
		},
		{
			name:     "splits on first colon only",
			text:     "echo: a: b",
			expected: action.ToolInvocation{Tool: "echo", InputText: "a: b"},
		},
		{
			name:     "unknown prefix falls through",
			text:     "The answer is: 42",
			expected: action.LLMResponse{Content: "The answer is: 42"},
		},
		{
			name:     "url is not a tool call",
			text:     " see https://example.com ",
			expected: action.LLMResponse{Content: "see https://example.com"},
		},
		{
			name:     "bare url scheme prefix",
			text:     "https://example.com",
			expected: action.LLMResponse{Content: "https://example.com"},
		},
		{
			name:     "no colon",
			text:     "\nhello\n",
			expected: action.LLMResponse{Content: "hello"},
		},
		{
			name:     "empty",
			text:     "",
			expected: action.LLMResponse{Content: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(llm.Generation{Text: tt.text}, known))
		})
	}
}

func TestClassify_StructuredPayload(t *testing.T) {
	raw := json.RawMessage(`{"id":"x","content":"echo: not a tool call"}`)

	got := Classify(llm.Generation{Text: "echo: not a tool call", Raw: raw}, toolSet(DefaultKnownTools))

	assert.Equal(t, action.LLMResponse{Content: "echo: not a tool call", Raw: raw}, got)
}

func TestPlanner_Plan(t *testing.T) {
	t.Run("renders template with memory", func(t *testing.T) {
		provider := llm.NewMockProvider("echo: hi")
		p := New(provider)

		act, err := p.Plan(context.Background(), "say hi", staticContext("Input: a\nResult: b"))

		require.NoError(t, err)
		assert.Equal(t, action.ToolInvocation{Tool: "echo", InputText: "hi"}, act)
		assert.Equal(t, []string{"Input: a\nResult: b\nUser: say hi\n"}, provider.Prompts)
	})

	t.Run("empty memory and nil source", func(t *testing.T) {
		provider := llm.NewMockProvider("ok")
		p := New(provider)

		_, err := p.Plan(context.Background(), "x", staticContext(""))
		require.NoError(t, err)
		_, err = p.Plan(context.Background(), "y", nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"User: x\n", "User: y\n"}, provider.Prompts)
	})

	t.Run("custom template and known tools", func(t *testing.T) {
		provider := llm.NewMockProvider("weather: paris")
		p := New(provider, WithTemplate("Q={{.Input}}"), WithKnownTools([]string{"Weather"}))

		act, err := p.Plan(context.Background(), "forecast", nil)

		require.NoError(t, err)
		assert.Equal(t, action.ToolInvocation{Tool: "weather", InputText: "paris"}, act)
		assert.Equal(t, []string{"Q=forecast"}, provider.Prompts)
		assert.Equal(t, []string{"weather"}, p.KnownTools())
	})
}

func TestPlanner_PlanningErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider llm.Provider
		opts     []Option
		contains string
	}{
		{
			name:     "provider error",
			provider: &llm.MockProvider{Err: errors.New("connection refused")},
			contains: "Planning error: connection refused",
		},
		{
			name:     "template parse error",
			provider: llm.NewMockProvider("unused"),
			opts:     []Option{WithTemplate("{{.Input")},
			contains: "Planning error: invalid prompt template",
		},
		{
			name:     "template execution error",
			provider: llm.NewMockProvider("unused"),
			opts:     []Option{WithTemplate("{{.Missing}}")},
			contains: "Planning error: failed to render prompt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.provider, tt.opts...)

			act, err := p.Plan(context.Background(), "hi", nil)

			require.Error(t, err)
			assert.True(t, fault.Is(err, fault.KindPlanning))
			resp, ok := act.(action.LLMResponse)
			require.True(t, ok)
			assert.Contains(t, resp.Content, tt.contains)
			assert.Equal(t, err.Error(), resp.Content)
			assert.Nil(t, resp.Raw)
		})
	}
}

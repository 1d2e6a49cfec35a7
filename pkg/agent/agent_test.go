package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harun/agentbuilder/pkg/action"
	"github.com/harun/agentbuilder/pkg/fault"
	"github.com/harun/agentbuilder/pkg/llm"
	"github.com/harun/agentbuilder/pkg/memory"
	"github.com/harun/agentbuilder/pkg/planner"
	"github.com/harun/agentbuilder/pkg/toolexecutor"
)

type panickingProvider struct{}

func (panickingProvider) Name() string { return "panicking" }

func (panickingProvider) Generate(context.Context, string) (llm.Generation, error) {
	panic("provider exploded")
}

type recordingObserver struct {
	calls []string
}

func (r *recordingObserver) ObserveAct(variant, status string, _ time.Duration) {
	r.calls = append(r.calls, variant+"/"+status)
}

func newTestAgent(t *testing.T, provider llm.Provider, opts ...Option) *Agent {
	t.Helper()
	a, err := New(
		memory.New(memory.Config{MaxTurns: 5}),
		planner.New(provider),
		toolexecutor.NewExecutor(nil, zerolog.Nop()),
		opts...,
	)
	require.NoError(t, err)
	return a
}

func TestNew_RequiresCollaborators(t *testing.T) {
	mem := memory.New(memory.Config{})
	pl := planner.New(llm.NewMockProvider("x"))
	ex := toolexecutor.NewExecutor(nil, zerolog.Nop())

	_, err := New(nil, pl, ex)
	assert.Error(t, err)
	_, err = New(mem, nil, ex)
	assert.Error(t, err)
	_, err = New(mem, pl, nil)
	assert.Error(t, err)
}

func TestAgent_EndToEndToolCall(t *testing.T) {
	a := newTestAgent(t, llm.NewMockProvider("echo: hello"))

	reply := a.Act(context.Background(), "anything")

	require.NoError(t, reply.Err)
	assert.Equal(t, "Echo: hello", reply.Text)
	assert.Equal(t, "Echo: hello", reply.String())
	assert.Equal(t, action.ToolInvocation{Tool: "echo", InputText: "hello"}, reply.Action)

	history := a.Memory().History()
	require.Len(t, history, 1)
	assert.Equal(t, memory.KindRecord, history[0].Kind)
	assert.Equal(t, "anything", history[0].Input)
	assert.Equal(t, "Echo: hello", history[0].Result)
}

func TestAgent_PanicIsContained(t *testing.T) {
	var logs bytes.Buffer
	a := newTestAgent(t, panickingProvider{}, WithLogger(zerolog.New(&logs)))

	var reply Reply
	require.NotPanics(t, func() {
		reply = a.Act(context.Background(), "trigger")
	})

	assert.Equal(t, "Agent error: provider exploded", reply.Text)
	assert.True(t, fault.Is(reply.Err, fault.KindAgent))

	history := a.Memory().History()
	require.Len(t, history, 1)
	assert.Equal(t, "trigger", history[0].Input)
	assert.Equal(t, "Agent error: provider exploded", history[0].Result)

	assert.Contains(t, logs.String(), `"input":"trigger"`)
	assert.Contains(t, logs.String(), "Agent act failed")
}

func TestAgent_ProviderErrorIsPlanningError(t *testing.T) {
	a := newTestAgent(t, &llm.MockProvider{Err: errors.New("network down")})

	reply := a.Act(context.Background(), "hi", WithFormatting(false))

	assert.Equal(t, "Planning error: network down", reply.Text)
	assert.True(t, fault.Is(reply.Err, fault.KindPlanning))
	require.Equal(t, 1, a.Memory().Len())
	assert.Equal(t, "Planning error: network down", a.Memory().History()[0].Result)
}

func TestAgent_PlanningErrorIsNotFormatted(t *testing.T) {
	a := newTestAgent(t, &llm.MockProvider{Err: errors.New("network down")})

	reply := a.Act(context.Background(), "hi")

	assert.Equal(t, "Planning error: network down", reply.Text)
	assert.True(t, fault.Is(reply.Err, fault.KindPlanning))
}

func TestAgent_Formatting(t *testing.T) {
	t.Run("direct responses are formatted by default", func(t *testing.T) {
		a := newTestAgent(t, llm.NewMockProvider("  The answer is: 42 "))

		reply := a.Act(context.Background(), "q")

		assert.Equal(t, "Formatted Response:\n```\nThe answer is: 42\n```", reply.Text)
		assert.Equal(t, "The answer is: 42", a.Memory().History()[0].Result)
	})

	t.Run("formatting can be disabled", func(t *testing.T) {
		a := newTestAgent(t, llm.NewMockProvider("plain"))
		assert.Equal(t, "plain", a.Act(context.Background(), "q", WithFormatting(false)).Text)
	})

	t.Run("tool results are never formatted", func(t *testing.T) {
		a := newTestAgent(t, llm.NewMockProvider("echo: x"))
		assert.Equal(t, "Echo: x", a.Act(context.Background(), "q", WithFormatting(true)).Text)
	})

	t.Run("full details use the raw payload", func(t *testing.T) {
		raw := json.RawMessage(`{"id":"msg_1","model":"claude-opus-4","content":[{"type":"text","text":"hi"}]}`)
		provider := &llm.MockProvider{Response: llm.Generation{Text: "hi", Raw: raw}}
		a := newTestAgent(t, provider)

		reply := a.Act(context.Background(), "q", WithFullDetails(true))
		assert.Contains(t, reply.Text, "Formatted Response (Full Details):")
		assert.Contains(t, reply.Text, `id: "msg_1"`)

		reply = a.Act(context.Background(), "q")
		assert.Equal(t, "Formatted Response:\n```\nhi\n```", reply.Text)
	})

	t.Run("full details without raw payload formats the text", func(t *testing.T) {
		a := newTestAgent(t, llm.NewMockProvider("hi"))
		assert.Equal(t, "Formatted Response:\n```\nhi\n```", a.Act(context.Background(), "q", WithFullDetails(true)).Text)
	})
}

func TestAgent_UnknownToolIsReported(t *testing.T) {
	a := newTestAgent(t, llm.NewMockProvider("echo: x"))
	a.planner = planner.New(llm.NewMockProvider("weather: paris"), planner.WithKnownTools([]string{"weather"}))

	reply := a.Act(context.Background(), "forecast")

	assert.Equal(t, "Error: Tool 'weather' not found.", reply.Text)
	assert.True(t, fault.Is(reply.Err, fault.KindToolNotFound))
	assert.Equal(t, "Error: Tool 'weather' not found.", a.Memory().History()[0].Result)
}

func TestAgent_OneRecordPerActWithinCapacity(t *testing.T) {
	a := newTestAgent(t, llm.NewScriptedProvider("echo: 1", "echo: 2", "echo: 3", "echo: 4", "echo: 5", "echo: 6", "echo: 7"))

	for i := 0; i < 7; i++ {
		a.Act(context.Background(), "turn")
		expected := i + 1
		if expected > 5 {
			expected = 5
		}
		assert.Equal(t, expected, a.Memory().Len())
	}

	history := a.Memory().History()
	assert.Equal(t, "Echo: 3", history[0].Result)
	assert.Equal(t, "Echo: 7", history[4].Result)

	a.Reset()
	assert.Equal(t, 0, a.Memory().Len())
}

func TestAgent_PromptIncludesMemory(t *testing.T) {
	provider := llm.NewScriptedProvider("echo: first", "done")
	a := newTestAgent(t, provider)

	a.Act(context.Background(), "one")
	a.Act(context.Background(), "two")

	require.Len(t, provider.Prompts, 2)
	assert.Equal(t, "User: one\n", provider.Prompts[0])
	assert.Equal(t, "Input: one\nResult: Echo: first\nUser: two\n", provider.Prompts[1])
}

func TestAgent_Observer(t *testing.T) {
	obs := &recordingObserver{}
	a := newTestAgent(t, llm.NewScriptedProvider("echo: a", "plain"), WithObserver(obs))

	a.Act(context.Background(), "1")
	a.Act(context.Background(), "2")
	a.Act(context.Background(), "3")

	assert.Equal(t, []string{
		"tool_invocation/success",
		"llm_response/success",
		"llm_response/planning",
	}, obs.calls)
}

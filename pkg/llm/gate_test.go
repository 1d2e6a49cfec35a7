package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedGate struct {
	allow bool
	err   error
	seen  []string
}

func (g *fixedGate) Allow(_ context.Context, prompt string) (bool, error) {
	g.seen = append(g.seen, prompt)
	return g.allow, g.err
}

func TestWithTokenGate(t *testing.T) {
	t.Run("declined call never reaches the provider", func(t *testing.T) {
		inner := NewMockProvider("should not see this")
		gate := &fixedGate{allow: false}
		p := WithTokenGate(inner, gate)

		gen, err := p.Generate(context.Background(), "long prompt")
		require.NoError(t, err)
		assert.Equal(t, AbortedText, gen.Text)
		assert.Empty(t, inner.Prompts)
		assert.Equal(t, []string{"long prompt"}, gate.seen)
	})

	t.Run("allowed call passes through", func(t *testing.T) {
		inner := NewMockProvider("ok")
		p := WithTokenGate(inner, &fixedGate{allow: true})

		gen, err := p.Generate(context.Background(), "p")
		require.NoError(t, err)
		assert.Equal(t, "ok", gen.Text)
		assert.Equal(t, "mock", p.Name())
	})

	t.Run("gate error is returned", func(t *testing.T) {
		p := WithTokenGate(NewMockProvider("ok"), &fixedGate{err: errors.New("stdin closed")})

		_, err := p.Generate(context.Background(), "p")
		assert.ErrorContains(t, err, "stdin closed")
	})

	t.Run("list models delegates", func(t *testing.T) {
		inner := &MockProvider{Models: []string{"a"}}
		models, err := WithTokenGate(inner, &fixedGate{allow: true}).ListModels(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, models)

		_, err = WithTokenGate(NewScriptedProvider(), &fixedGate{}).ListModels(context.Background())
		assert.Error(t, err)
	})
}

func TestScriptedProvider(t *testing.T) {
	p := NewScriptedProvider("one", "two")

	gen, err := p.Generate(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "one", gen.Text)

	gen, err = p.Generate(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, "two", gen.Text)

	_, err = p.Generate(context.Background(), "c")
	assert.ErrorIs(t, err, ErrScriptExhausted)
	assert.Equal(t, []string{"a", "b", "c"}, p.Prompts)

	p.Reset()
	gen, err = p.Generate(context.Background(), "d")
	require.NoError(t, err)
	assert.Equal(t, "one", gen.Text)
}

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harun/agentbuilder/pkg/llm"
)

func TestModelsCommand(t *testing.T) {
	t.Run("lists models", func(t *testing.T) {
		built := stubProvider(t, fakeProvider{
			ScriptedProvider: llm.NewScriptedProvider(),
			models:           []string{"llama3", "mistral"},
		})

		out, err := execute(t, "", "models", "--provider", "Ollama")
		require.NoError(t, err)

		assert.Equal(t, "Available Ollama models:\n  llama3\n  mistral\n", out)
		assert.Equal(t, "ollama", (*built)[0].Provider)
	})

	t.Run("empty list is an error", func(t *testing.T) {
		stubProvider(t, fakeProvider{ScriptedProvider: llm.NewScriptedProvider()})

		_, err := execute(t, "", "models")
		require.Error(t, err)
		assert.ErrorIs(t, err, llm.ErrNoModels)
	})
}

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolsCommand(t *testing.T) {
	out, err := execute(t, "", "tools")
	require.NoError(t, err)

	assert.Contains(t, out, "Available tools:\n  echo - ")
	assert.Contains(t, out, "  format_response - ")
	assert.Contains(t, out, "  token_counter - Count tokens and confirm before an LLM call\n")
	assert.Contains(t, out, "      interactive (boolean): Ask for confirmation before proceeding\n")
}

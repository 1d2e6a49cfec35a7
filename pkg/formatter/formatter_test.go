package formatter

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat_String(t *testing.T) {
	assert.Equal(t, "Formatted Response:\n```\nhello\n```", Format("  hello \n"))
	assert.Equal(t, "Formatted Response:\n```\n\n```", Format(""))
}

func TestFormat_FullDetails(t *testing.T) {
	payload := json.RawMessage(`{"id":"msg_1","model":"gpt-4o","usage":{"total_tokens":7},"choices":[{"text":"a"},{"text":"b"}],"extra":true}`)

	out := Format(payload)

	assert.Contains(t, out, "Formatted Response (Full Details):")
	assert.Contains(t, out, `id: "msg_1"`)
	assert.Contains(t, out, `model: "gpt-4o"`)
	assert.Contains(t, out, "usage: {\n  \"total_tokens\": 7\n}")
	assert.Contains(t, out, "Choices:")
	assert.Contains(t, out, "Choice 0: {\n  \"text\": \"a\"\n}")
	assert.Contains(t, out, "Choice 1: {\n  \"text\": \"b\"\n}")
	assert.NotContains(t, out, "extra")
	assert.NotContains(t, out, "Tools:")
}

func TestFormat_FullDetailsFromMap(t *testing.T) {
	out := Format(map[string]any{
		"content": "hi",
		"type":    "ai",
		"tools":   []any{map[string]any{"name": "echo"}},
		"usage":   map[string]any{},
	})

	assert.Contains(t, out, "Formatted Response (Full Details):")
	assert.Contains(t, out, `content: "hi"`)
	assert.Contains(t, out, `type: "ai"`)
	assert.Contains(t, out, "Tools:")
	assert.NotContains(t, out, "usage:")
}

func TestFormat_RawFallbacks(t *testing.T) {
	t.Run("object without known keys", func(t *testing.T) {
		assert.Equal(t, "Formatted Response (Raw):\n{\n  \"foo\": 1\n}", Format(map[string]any{"foo": 1}))
	})

	t.Run("struct", func(t *testing.T) {
		type point struct {
			X int `json:"x"`
		}
		assert.Equal(t, "Formatted Response (Raw Object):\n{\n  \"x\": 3\n}", Format(&point{X: 3}))
	})

	t.Run("scalars and lists", func(t *testing.T) {
		assert.Equal(t, "Formatted Response (Raw):\n42", Format(42))
		assert.Equal(t, "Formatted Response (Raw):\ntrue", Format(true))
		assert.Equal(t, "Formatted Response (Raw):\n[1, 2]", Format([]int{1, 2}))
		assert.Equal(t, "Formatted Response (Raw):\nnull", Format(nil))
	})
}

func TestFormat_Unrecognized(t *testing.T) {
	assert.Equal(t, "Formatted Response (Unrecognized type): NaN", Format(math.NaN()))

	ch := make(chan int)
	assert.Contains(t, Format(ch), "Formatted Response (Unrecognized type):")
}

func TestDefault(t *testing.T) {
	assert.Equal(t, Format("x"), Default.Format("x"))
}

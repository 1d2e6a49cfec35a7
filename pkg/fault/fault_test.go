package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorRendering(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"planning", Planning(errors.New("connection refused")), "Planning error: connection refused"},
		{"tool not found", ToolNotFound("nope"), "Error: Tool 'nope' not found."},
		{"unknown action", UnknownAction(42), "Error: Unknown action type: int"},
		{"execution", Execution("echo", errors.New("boom")), "Execution error: boom"},
		{"agent", Agent(errors.New("nil map")), "Agent error: nil map"},
		{"agent without cause", Agent(nil), "Agent error: unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestKindOf(t *testing.T) {
	cause := errors.New("timeout")
	wrapped := fmt.Errorf("outer: %w", Execution("echo", cause))

	assert.Equal(t, KindExecution, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindExecution))
	assert.False(t, Is(wrapped, KindAgent))
	assert.ErrorIs(t, wrapped, cause)

	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.False(t, Is(nil, KindAgent))
}

func TestFromPanic(t *testing.T) {
	err := errors.New("bad")
	assert.Same(t, err, FromPanic(err))
	assert.EqualError(t, FromPanic("index out of range"), "index out of range")
}

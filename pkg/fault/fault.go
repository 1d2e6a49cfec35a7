// Package fault defines the structured failures produced at each boundary of the agent loop.
//
// Every failure still renders to the plain text a caller would show to a user,
// so the loop can record it in memory and return it, while callers that care can
// branch on Kind with errors.As or KindOf.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies where a failure was contained.
type Kind string

const (
	// KindPlanning is a capability or template failure converted by the planner.
	KindPlanning Kind = "planning"

	// KindToolNotFound is a tool invocation naming an unregistered tool.
	KindToolNotFound Kind = "tool_not_found"

	// KindUnknownAction is an action shape the executor cannot dispatch.
	KindUnknownAction Kind = "unknown_action"

	// KindExecution is a failure raised while a tool was running.
	KindExecution Kind = "execution"

	// KindAgent is an unexpected failure caught by the agent itself.
	KindAgent Kind = "agent"
)

// Error is a contained failure with its display rendering.
type Error struct {
	Kind Kind
	Tool string
	Err  error
}

// Error renders the failure the way it is shown to users and recorded in memory.
func (e *Error) Error() string {
	switch e.Kind {
	case KindPlanning:
		return "Planning error: " + e.message()
	case KindToolNotFound:
		return fmt.Sprintf("Error: Tool '%s' not found.", e.Tool)
	case KindUnknownAction:
		return "Error: Unknown action type: " + e.message()
	case KindExecution:
		return "Execution error: " + e.message()
	case KindAgent:
		return "Agent error: " + e.message()
	default:
		return "Error: " + e.message()
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) message() string {
	if e.Err == nil {
		return "unknown error"
	}
	return e.Err.Error()
}

// Planning wraps a failure that happened while building an action.
func Planning(err error) *Error {
	return &Error{Kind: KindPlanning, Err: err}
}

// ToolNotFound reports an invocation of an unregistered tool.
func ToolNotFound(name string) *Error {
	return &Error{Kind: KindToolNotFound, Tool: name}
}

// UnknownAction reports an action the executor does not understand.
func UnknownAction(action any) *Error {
	return &Error{Kind: KindUnknownAction, Err: fmt.Errorf("%T", action)}
}

// Execution wraps a failure raised by a tool.
func Execution(tool string, err error) *Error {
	return &Error{Kind: KindExecution, Tool: tool, Err: err}
}

// Agent wraps a failure that escaped every inner boundary.
func Agent(err error) *Error {
	return &Error{Kind: KindAgent, Err: err}
}

// FromPanic converts a recovered panic value into an error.
func FromPanic(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("%v", v)
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// Is reports whether err carries a failure of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

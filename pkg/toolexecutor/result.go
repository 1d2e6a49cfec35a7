package toolexecutor

import "fmt"

// Result is the outcome of executing an action.
type Result struct {
	// Value is the tool's return value, or the response content for direct answers.
	Value any
	// Err is a *fault.Error when dispatch or execution failed.
	Err error
}

// OK reports whether execution succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Text renders the result for memory and display. Non-string values are
// rendered with fmt, so the conversion is lossy.
func (r Result) Text() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	switch v := r.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

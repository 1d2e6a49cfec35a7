// Package action defines the tagged result of planning.
//
// An Action is either an LLMResponse (answer the user directly) or a
// ToolInvocation (run a named tool). The set is closed: only the types in this
// package implement Action.
package action

// Action is the sealed union of planner outputs.
type Action interface {
	isAction()
}

// LLMResponse is a direct textual answer.
type LLMResponse struct {
	Content string
	// Raw is the unformatted provider payload kept for verbose display.
	// It is nil for plain text replies.
	Raw any
}

func (LLMResponse) isAction() {}

// ToolInvocation asks the executor to run a registered tool.
type ToolInvocation struct {
	Tool      string
	InputText string
	// Context is nil when the planner supplied none.
	Context map[string]any
}

func (ToolInvocation) isAction() {}

// Variant names the action's variant for logs and metrics.
func Variant(a Action) string {
	switch a.(type) {
	case LLMResponse, *LLMResponse:
		return "llm_response"
	case ToolInvocation, *ToolInvocation:
		return "tool_invocation"
	default:
		return "unknown"
	}
}

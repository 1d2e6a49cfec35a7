package planner

import (
	"strings"

	"github.com/harun/agentbuilder/pkg/action"
	"github.com/harun/agentbuilder/pkg/llm"
)

// Classify maps model output onto the action protocol.
//
// A structured generation becomes an LLMResponse carrying its raw payload.
// Otherwise the text is split on its first colon; when the lower-cased,
// trimmed prefix names a known tool the rest becomes the tool input. Anything
// else is a plain, trimmed LLMResponse.
func Classify(gen llm.Generation, known map[string]bool) action.Action {
	if gen.Structured() {
		return action.LLMResponse{Content: gen.Text, Raw: gen.Raw}
	}

	if prefix, rest, found := strings.Cut(gen.Text, ":"); found {
		tool := strings.ToLower(strings.TrimSpace(prefix))
		if known[tool] {
			return action.ToolInvocation{
				Tool:      tool,
				InputText: strings.TrimSpace(rest),
			}
		}
	}

	return action.LLMResponse{Content: strings.TrimSpace(gen.Text)}
}

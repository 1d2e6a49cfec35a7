package toolexecutor

import "context"

// Tool is a named capability the agent can invoke.
type Tool interface {
	Run(ctx context.Context, input string, toolCtx map[string]any) (any, error)
}

// ToolFunc adapts a function to Tool.
type ToolFunc func(ctx context.Context, input string, toolCtx map[string]any) (any, error)

// Run calls f.
func (f ToolFunc) Run(ctx context.Context, input string, toolCtx map[string]any) (any, error) {
	return f(ctx, input, toolCtx)
}

// ContextParameter describes one key a tool accepts in its invocation context.
type ContextParameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Definition is the metadata a tool may publish about itself.
type Definition struct {
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	ContextSchema []ContextParameter `json:"context_schema,omitempty"`
}

// Describer is implemented by tools that publish a Definition.
type Describer interface {
	Definition() Definition
}

type describedTool struct {
	Tool
	def Definition
}

func (d describedTool) Definition() Definition { return d.def }

// Describe attaches a Definition to a tool.
func Describe(tool Tool, def Definition) Tool {
	return describedTool{Tool: tool, def: def}
}

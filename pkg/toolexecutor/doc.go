// Package toolexecutor registers named tools and dispatches planner actions to them.
//
// Invariants:
// - Tool names map to exactly one tool; the last registration wins.
// - Tool context is schema-validated before Run when the tool declares parameters.
// - Execute never panics and never returns a Go error; failures come back as a Result carrying a *fault.Error.
// - Built-in tools (echo, format_response, token_counter) are present unless overridden.
//
// Usage:
//
//	reg := toolexecutor.NewRegistry()
//	exec := toolexecutor.NewExecutor(reg, logger)
//	res := exec.Execute(ctx, action.ToolInvocation{Tool: "echo", InputText: "hi"})
//	fmt.Println(res.Text()) // Echo: hi
package toolexecutor

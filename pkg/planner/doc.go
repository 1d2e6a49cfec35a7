// Package planner turns user input and memory context into an action by
// prompting a language model and classifying its reply.
//
// Invariants:
// - Plan always returns an LLMResponse or a ToolInvocation, never nil.
// - The provider call is the only blocking step.
// - Classification never fails; unknown prefixes fall through to an LLMResponse.
//
// Usage:
//
//	p := planner.New(provider, planner.WithKnownTools(exec.Registry().Names()))
//	act, err := p.Plan(ctx, "echo: hi", buf)
package planner

// Package llm adapts language-model backends to a single prompt-in, text-out capability.
//
// Invariants:
// - Each adapter converts ordinary backend failures into descriptive text.
// - The selected provider and model are resolved once, by New.
// - A Generation carries Raw only when IncludeRaw is set.
//
// Usage:
//
//	p, err := llm.New(ctx, llm.Config{Provider: llm.ProviderOllama})
//	if err != nil {
//		return err
//	}
//	gen, err := p.Generate(ctx, "Say hi")
package llm

// Package agent runs the plan, execute, record loop over a single memory buffer.
//
// Invariants:
// - Every Act appends exactly one interaction to memory, including on failure.
// - Act never panics; unexpected failures come back as "Agent error: ..." text.
// - An Agent is driven by one caller at a time; it holds no locks.
//
// Usage:
//
//	a, _ := agent.New(memory.New(memory.Config{}), planner.New(provider), toolexecutor.NewExecutor(nil, logger))
//	reply := a.Act(ctx, "hello", agent.WithFormatting(false))
//	fmt.Println(reply)
package agent

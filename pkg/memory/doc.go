// Package memory keeps a bounded, in-process record of recent agent interactions.
//
// Invariants:
// - Buffer length never exceeds MaxTurns; the oldest entry is evicted first.
// - Insertion order is chronological order.
// - Unrecognized interactions are dropped with a warning, never an error.
// - A Buffer is not safe for concurrent mutation; callers serialize access.
//
// Usage:
//
//	buf := memory.New(memory.Config{MaxTurns: 10})
//	buf.AddRecord("what time is it?", "Echo: what time is it?")
//	prompt := buf.Context()
//	_ = prompt
package memory

package memory

import (
	"strings"

	"github.com/rs/zerolog"
)

// DefaultMaxTurns is the capacity used when none is configured.
const DefaultMaxTurns = 10

// Config holds buffer configuration
type Config struct {
	MaxTurns int
	Logger   zerolog.Logger
}

// Buffer is a FIFO of the most recent interactions.
type Buffer struct {
	entries  []Interaction
	maxTurns int
	logger   zerolog.Logger
}

// New creates an empty buffer. A non-positive MaxTurns falls back to DefaultMaxTurns.
func New(cfg Config) *Buffer {
	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Buffer{
		entries:  make([]Interaction, 0, maxTurns),
		maxTurns: maxTurns,
		logger:   cfg.Logger,
	}
}

// AddInteraction appends a turn or record and evicts the oldest entries beyond capacity.
// Anything else is ignored with a warning.
func (b *Buffer) AddInteraction(in Interaction) {
	if !in.Valid() {
		b.logger.Warn().
			Str("kind", string(in.Kind)).
			Msg("Ignoring interaction without a user/agent or input/result pair")
		return
	}

	b.entries = append(b.entries, in)
	for len(b.entries) > b.maxTurns {
		b.entries[0] = Interaction{}
		b.entries = b.entries[1:]
	}
}

// AddTurn records a user/agent exchange.
func (b *Buffer) AddTurn(user, agent string) {
	b.AddInteraction(Turn(user, agent))
}

// AddRecord records an input/result pair.
func (b *Buffer) AddRecord(input, result string) {
	b.AddInteraction(Record(input, result))
}

// Context renders the buffer as prompt context, two lines per entry.
func (b *Buffer) Context() string {
	lines := make([]string, 0, len(b.entries)*2)
	for idx, entry := range b.entries {
		first, second, ok := entry.lines()
		if !ok {
			b.logger.Warn().
				Int("index", idx).
				Str("kind", string(entry.Kind)).
				Msg("Skipping malformed memory entry")
			continue
		}
		lines = append(lines, first, second)
	}
	return strings.Join(lines, "\n")
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	clear(b.entries)
	b.entries = b.entries[:0]
}

// History returns a copy of the buffer in chronological order.
func (b *Buffer) History() []Interaction {
	out := make([]Interaction, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of stored interactions.
func (b *Buffer) Len() int {
	return len(b.entries)
}

// MaxTurns returns the buffer capacity.
func (b *Buffer) MaxTurns() int {
	return b.maxTurns
}

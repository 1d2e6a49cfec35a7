package memory

import (
	"time"

	"github.com/google/uuid"
)

// Kind tells which pair of fields an Interaction carries.
type Kind string

const (
	// KindTurn is a free-text user/agent exchange.
	KindTurn Kind = "turn"
	// KindRecord is a raw input/result pair written by the agent loop.
	KindRecord Kind = "record"
)

// Interaction is one entry in the buffer.
type Interaction struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	User      string    `json:"user,omitempty"`
	Agent     string    `json:"agent,omitempty"`
	Input     string    `json:"input,omitempty"`
	Result    string    `json:"result,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Turn builds a user/agent interaction.
func Turn(user, agent string) Interaction {
	return Interaction{
		ID:        uuid.New().String(),
		Kind:      KindTurn,
		User:      user,
		Agent:     agent,
		Timestamp: time.Now(),
	}
}

// Record builds an input/result interaction.
func Record(input, result string) Interaction {
	return Interaction{
		ID:        uuid.New().String(),
		Kind:      KindRecord,
		Input:     input,
		Result:    result,
		Timestamp: time.Now(),
	}
}

// Valid reports whether the interaction carries a recognizable pair.
func (i Interaction) Valid() bool {
	return i.Kind == KindTurn || i.Kind == KindRecord
}

// lines renders the interaction as its two context lines.
func (i Interaction) lines() (string, string, bool) {
	switch i.Kind {
	case KindTurn:
		return "User: " + i.User, "Agent: " + i.Agent, true
	case KindRecord:
		return "Input: " + i.Input, "Result: " + i.Result, true
	default:
		return "", "", false
	}
}

package tracing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// TraceIDKey is the context key for trace ID
	TraceIDKey ContextKey = "trace_id"
	// RunIDKey is the context key for the ID of one agent act
	RunIDKey ContextKey = "run_id"
	// ClientIDKey is the context key for the gateway client that issued the request
	ClientIDKey ContextKey = "client_id"
)

// IDs holds the tracing identifiers carried by a context.
type IDs struct {
	TraceID  string
	RunID    string
	ClientID string
}

// NewTraceID generates a new unique trace ID
func NewTraceID() string {
	return uuid.New().String()
}

// NewRunID generates a new unique run ID
func NewRunID() string {
	return uuid.New().String()
}

// WithTraceID adds a trace ID to the context
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// WithRunID adds a run ID to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// WithClientID adds a gateway client ID to the context
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, ClientIDKey, clientID)
}

func value(ctx context.Context, key ContextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// GetTraceID retrieves the trace ID from context
func GetTraceID(ctx context.Context) string { return value(ctx, TraceIDKey) }

// GetRunID retrieves the run ID from context
func GetRunID(ctx context.Context) string { return value(ctx, RunIDKey) }

// GetClientID retrieves the gateway client ID from context
func GetClientID(ctx context.Context) string { return value(ctx, ClientIDKey) }

// FromContext extracts every tracing ID from ctx.
func FromContext(ctx context.Context) IDs {
	return IDs{
		TraceID:  GetTraceID(ctx),
		RunID:    GetRunID(ctx),
		ClientID: GetClientID(ctx),
	}
}

// NewRunContext starts a run: it ensures a trace ID and assigns a fresh run ID.
func NewRunContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if GetTraceID(ctx) == "" {
		ctx = WithTraceID(ctx, NewTraceID())
	}
	return WithRunID(ctx, NewRunID())
}

// LoggerFromContext enriches baseLogger with the tracing IDs present in ctx.
func LoggerFromContext(ctx context.Context, baseLogger zerolog.Logger) zerolog.Logger {
	ids := FromContext(ctx)
	logCtx := baseLogger.With()

	if ids.TraceID != "" {
		logCtx = logCtx.Str("trace_id", ids.TraceID)
	}
	if ids.RunID != "" {
		logCtx = logCtx.Str("run_id", ids.RunID)
	}
	if ids.ClientID != "" {
		logCtx = logCtx.Str("client_id", ids.ClientID)
	}

	return logCtx.Logger()
}

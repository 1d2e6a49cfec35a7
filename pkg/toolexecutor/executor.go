package toolexecutor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/harun/agentbuilder/pkg/action"
	"github.com/harun/agentbuilder/pkg/fault"
)

// Execution statuses reported to observers.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusNotFound = "not_found"
)

// Observer receives one call per tool invocation.
type Observer interface {
	ObserveTool(tool, status string, duration time.Duration)
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithObserver sets the tool observer.
func WithObserver(o Observer) ExecutorOption {
	return func(e *Executor) {
		e.observer = o
	}
}

// WithBuiltins configures the built-in tools registered at construction.
func WithBuiltins(cfg BuiltinConfig) ExecutorOption {
	return func(e *Executor) {
		e.builtins = cfg
	}
}

// Executor dispatches actions to registered tools.
type Executor struct {
	registry *Registry
	logger   zerolog.Logger
	observer Observer
	builtins BuiltinConfig
}

// NewExecutor creates an executor over registry, adding the built-in tools for
// any built-in name the registry does not already hold. A nil registry starts empty.
func NewExecutor(registry *Registry, logger zerolog.Logger, opts ...ExecutorOption) *Executor {
	if registry == nil {
		registry = NewRegistry()
	}

	e := &Executor{
		registry: registry,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := RegisterBuiltins(registry, e.builtins); err != nil {
		e.logger.Error().Err(err).Msg("Failed to register built-in tools")
	}

	e.logger.Debug().Strs("tools", registry.Names()).Msg("Tool executor initialized")

	return e
}

// Registry returns the executor's registry.
func (e *Executor) Registry() *Registry {
	return e.registry
}

// Register adds or replaces a tool.
func (e *Executor) Register(name string, tool Tool) error {
	if err := e.registry.Register(name, tool); err != nil {
		return err
	}
	e.logger.Info().Str("tool", name).Msg("Tool registered")
	return nil
}

// Execute performs an action. Direct answers pass their content through;
// tool invocations run the named tool. Failures are returned in Result.Err.
func (e *Executor) Execute(ctx context.Context, a action.Action) Result {
	switch act := a.(type) {
	case action.LLMResponse:
		return Result{Value: act.Content}
	case *action.LLMResponse:
		if act != nil {
			return Result{Value: act.Content}
		}
	case action.ToolInvocation:
		return e.invoke(ctx, act)
	case *action.ToolInvocation:
		if act != nil {
			return e.invoke(ctx, *act)
		}
	}

	err := fault.UnknownAction(a)
	e.logger.Error().Err(err).Msg("Cannot execute action")
	return Result{Err: err}
}

func (e *Executor) invoke(ctx context.Context, inv action.ToolInvocation) Result {
	tool, ok := e.registry.Get(inv.Tool)
	if !ok {
		err := fault.ToolNotFound(inv.Tool)
		e.logger.Error().Str("tool", inv.Tool).Msg("Tool not found")
		e.observe(inv.Tool, StatusNotFound, 0)
		return Result{Err: err}
	}

	startTime := time.Now()

	if err := validateContext(e.registry.schema(inv.Tool), inv.Context); err != nil {
		e.logger.Error().Str("tool", inv.Tool).Err(err).Msg("Context validation failed")
		e.observe(inv.Tool, StatusError, time.Since(startTime))
		return Result{Err: fault.Execution(inv.Tool, err)}
	}

	e.logger.Debug().Str("tool", inv.Tool).Msg("Executing tool")

	value, err := e.run(ctx, tool, inv)
	duration := time.Since(startTime)

	if err != nil {
		e.logger.Error().
			Str("tool", inv.Tool).
			Dur("duration", duration).
			Err(err).
			Msg("Tool execution failed")
		e.observe(inv.Tool, StatusError, duration)
		return Result{Err: fault.Execution(inv.Tool, err)}
	}

	e.logger.Debug().
		Str("tool", inv.Tool).
		Dur("duration", duration).
		Msg("Tool execution completed")
	e.observe(inv.Tool, StatusSuccess, duration)

	return Result{Value: value}
}

// run calls the tool, converting a panic into an error.
func (e *Executor) run(ctx context.Context, tool Tool, inv action.ToolInvocation) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value = nil
			err = fault.FromPanic(r)
		}
	}()
	return tool.Run(ctx, inv.InputText, inv.Context)
}

func (e *Executor) observe(tool, status string, duration time.Duration) {
	if e.observer != nil {
		e.observer.ObserveTool(tool, status, duration)
	}
}

package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/harun/agentbuilder/internal/tracing"
	"github.com/harun/agentbuilder/pkg/action"
	"github.com/harun/agentbuilder/pkg/fault"
	"github.com/harun/agentbuilder/pkg/formatter"
	"github.com/harun/agentbuilder/pkg/memory"
	"github.com/harun/agentbuilder/pkg/planner"
	"github.com/harun/agentbuilder/pkg/toolexecutor"
)

// StatusSuccess is reported to observers for acts without a failure.
const StatusSuccess = "success"

// Planner produces the next action.
type Planner interface {
	Plan(ctx context.Context, input string, mem planner.ContextSource) (action.Action, error)
}

// Executor performs an action.
type Executor interface {
	Execute(ctx context.Context, a action.Action) toolexecutor.Result
}

// Observer receives one call per Act. Status is StatusSuccess or a fault kind.
type Observer interface {
	ObserveAct(variant, status string, duration time.Duration)
}

// Option configures an Agent.
type Option func(*Agent)

// WithFormatter sets the formatter used for direct responses.
func WithFormatter(f formatter.Formatter) Option {
	return func(a *Agent) {
		a.formatter = f
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// WithObserver sets the act observer.
func WithObserver(o Observer) Option {
	return func(a *Agent) {
		a.observer = o
	}
}

type actSettings struct {
	format      bool
	fullDetails bool
}

// ActOption configures a single Act call.
type ActOption func(*actSettings)

// WithFormatting controls whether direct responses are formatted. Defaults to true.
func WithFormatting(enabled bool) ActOption {
	return func(s *actSettings) {
		s.format = enabled
	}
}

// WithFullDetails formats the raw provider payload instead of the text when
// one is available. Defaults to false.
func WithFullDetails(enabled bool) ActOption {
	return func(s *actSettings) {
		s.fullDetails = enabled
	}
}

// Reply is the outcome of one Act.
type Reply struct {
	Text string
	// Err is a *fault.Error when planning, dispatch, execution or the loop itself failed.
	Err error
	// Action is the planned action, nil when the loop failed before planning finished.
	Action action.Action
}

// String returns the reply text.
func (r Reply) String() string {
	return r.Text
}

// Agent binds one memory, one planner and one executor.
type Agent struct {
	memory    *memory.Buffer
	planner   Planner
	executor  Executor
	formatter formatter.Formatter
	logger    zerolog.Logger
	observer  Observer
}

// New creates an agent.
func New(mem *memory.Buffer, pl Planner, ex Executor, opts ...Option) (*Agent, error) {
	if mem == nil {
		return nil, fmt.Errorf("memory is required")
	}
	if pl == nil {
		return nil, fmt.Errorf("planner is required")
	}
	if ex == nil {
		return nil, fmt.Errorf("executor is required")
	}

	a := &Agent{
		memory:    mem,
		planner:   pl,
		executor:  ex,
		formatter: formatter.Default,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Memory returns the agent's memory buffer.
func (a *Agent) Memory() *memory.Buffer {
	return a.memory
}

// Reset clears the agent's memory.
func (a *Agent) Reset() {
	a.memory.Reset()
}

// Act plans an action for input, executes it, records the exchange and
// returns the reply. It never panics.
func (a *Agent) Act(ctx context.Context, input string, opts ...ActOption) (reply Reply) {
	settings := actSettings{format: true}
	for _, opt := range opts {
		opt(&settings)
	}

	ctx = tracing.NewRunContext(ctx)
	ctx, span := tracing.StartSpan(ctx, "agent.act",
		attribute.String("run_id", tracing.GetRunID(ctx)),
		attribute.Int("input_length", len(input)),
	)
	defer span.End()

	logger := tracing.LoggerFromContext(ctx, a.logger)
	startTime := time.Now()
	recorded := false

	defer func() {
		if r := recover(); r != nil {
			err := fault.Agent(fault.FromPanic(r))
			logger.Error().
				Str("input", input).
				Interface("panic", r).
				Msg("Agent act failed")

			if !recorded {
				a.memory.AddRecord(input, err.Error())
			}
			reply = Reply{Text: err.Error(), Err: err, Action: reply.Action}
		}

		tracing.RecordError(span, reply.Err)
		a.observe(reply, time.Since(startTime))
	}()

	act, planErr := a.planner.Plan(ctx, input, a.memory)
	reply.Action = act
	span.SetAttributes(attribute.String("action", action.Variant(act)))

	result := a.executor.Execute(ctx, act)
	text := result.Text()

	a.memory.AddRecord(input, text)
	recorded = true

	reply.Err = result.Err
	if reply.Err == nil {
		reply.Err = planErr
	}
	reply.Text = a.respond(act, text, reply.Err, settings)

	logger.Debug().
		Str("action", action.Variant(act)).
		Bool("ok", reply.Err == nil).
		Dur("duration", time.Since(startTime)).
		Msg("Act completed")

	return reply
}

// respond formats direct responses when requested. Tool results and failures
// are returned as-is so their error prefix stays visible.
func (a *Agent) respond(act action.Action, text string, err error, s actSettings) string {
	if !s.format || err != nil {
		return text
	}

	var resp action.LLMResponse
	switch v := act.(type) {
	case action.LLMResponse:
		resp = v
	case *action.LLMResponse:
		resp = *v
	default:
		return text
	}

	if s.fullDetails && resp.Raw != nil {
		return a.formatter.Format(resp.Raw)
	}
	return a.formatter.Format(text)
}

func (a *Agent) observe(reply Reply, duration time.Duration) {
	if a.observer == nil {
		return
	}
	status := StatusSuccess
	if kind := fault.KindOf(reply.Err); kind != "" {
		status = string(kind)
	}
	a.observer.ObserveAct(action.Variant(reply.Action), status, duration)
}

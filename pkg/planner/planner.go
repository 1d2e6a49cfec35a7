package planner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/rs/zerolog"

	"github.com/harun/agentbuilder/pkg/action"
	"github.com/harun/agentbuilder/pkg/fault"
	"github.com/harun/agentbuilder/pkg/llm"
)

// DefaultTemplate puts recent memory ahead of the user's message.
const DefaultTemplate = `{{if .Memory}}{{.Memory}}
{{end}}User: {{.Input}}
`

// DefaultKnownTools are the tool names recognized in model replies.
var DefaultKnownTools = []string{"echo", "format_response", "token_counter"}

// ContextSource supplies rendered memory for prompts.
type ContextSource interface {
	Context() string
}

type promptData struct {
	Input  string
	Memory string
}

// Option configures a Planner.
type Option func(*Planner)

// WithTemplate sets the prompt template. It is parsed with text/template and
// sees .Input and .Memory.
func WithTemplate(text string) Option {
	return func(p *Planner) {
		p.templateText = text
	}
}

// WithKnownTools replaces the recognized tool names.
func WithKnownTools(names []string) Option {
	return func(p *Planner) {
		p.known = toolSet(names)
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// Planner builds actions from model output.
type Planner struct {
	provider     llm.Provider
	templateText string
	tmpl         *template.Template
	tmplErr      error
	known        map[string]bool
	logger       zerolog.Logger
}

// New creates a planner over provider. A template that fails to parse is
// reported as a planning error on every Plan call.
func New(provider llm.Provider, opts ...Option) *Planner {
	p := &Planner{
		provider:     provider,
		templateText: DefaultTemplate,
		known:        toolSet(DefaultKnownTools),
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.tmpl, p.tmplErr = template.New("prompt").Option("missingkey=error").Parse(p.templateText)
	if p.tmplErr != nil {
		p.logger.Error().Err(p.tmplErr).Msg("Invalid prompt template")
	}

	return p
}

// KnownTools returns the recognized tool names, sorted.
func (p *Planner) KnownTools() []string {
	names := make([]string, 0, len(p.known))
	for name := range p.known {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Plan renders the prompt, calls the model and classifies the reply.
//
// Failures never escape as a bare error: the returned action is then an
// LLMResponse whose content is the "Planning error: ..." text, and err is the
// matching *fault.Error so callers can branch on it.
func (p *Planner) Plan(ctx context.Context, input string, mem ContextSource) (action.Action, error) {
	prompt, err := p.render(input, mem)
	if err != nil {
		return p.fail(input, err)
	}

	gen, err := p.provider.Generate(ctx, prompt)
	if err != nil {
		return p.fail(input, err)
	}

	act := Classify(gen, p.known)

	p.logger.Debug().
		Str("provider", p.provider.Name()).
		Str("action", action.Variant(act)).
		Msg("Planned action")

	return act, nil
}

func (p *Planner) render(input string, mem ContextSource) (string, error) {
	if p.tmplErr != nil {
		return "", fmt.Errorf("invalid prompt template: %w", p.tmplErr)
	}

	data := promptData{Input: input}
	if mem != nil {
		data.Memory = mem.Context()
	}

	var sb strings.Builder
	if err := p.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return sb.String(), nil
}

func (p *Planner) fail(input string, err error) (action.Action, error) {
	perr := fault.Planning(err)
	p.logger.Error().Err(err).Str("input", input).Msg("Planning failed")
	return action.LLMResponse{Content: perr.Error()}, perr
}

func toolSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			set[name] = true
		}
	}
	return set
}

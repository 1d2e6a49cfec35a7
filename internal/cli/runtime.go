package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harun/agentbuilder/internal/config"
	"github.com/harun/agentbuilder/internal/logger"
	"github.com/harun/agentbuilder/internal/metrics"
	"github.com/harun/agentbuilder/internal/tracing"
	"github.com/harun/agentbuilder/pkg/agent"
	"github.com/harun/agentbuilder/pkg/llm"
	"github.com/harun/agentbuilder/pkg/memory"
	"github.com/harun/agentbuilder/pkg/planner"
	"github.com/harun/agentbuilder/pkg/toolexecutor"
)

// newProvider builds the language model provider. Tests replace it.
var newProvider = llm.New

// runtime holds what every command needs: config, logging and metrics.
type runtime struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Metrics
	tracing bool
}

func loadRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.File = cfg.Logging.File
	logCfg.Pretty = cfg.Logging.Pretty
	logCfg.Redaction = cfg.Logging.Redaction
	logCfg.Out = cmd.ErrOrStderr()

	log, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	rt := &runtime{cfg: cfg, log: log, metrics: metrics.NewMetrics()}
	if cfg.Tracing.Enabled {
		if err := tracing.InitOpenTelemetry(cfg.Tracing.ServiceName); err != nil {
			log.Warn().Err(err).Msg("Tracing disabled")
		} else {
			rt.tracing = true
		}
	}
	return rt, nil
}

func (rt *runtime) close() {
	if rt.tracing {
		_ = tracing.ShutdownOpenTelemetry(context.Background())
	}
	_ = rt.log.Close()
}

// provider builds the configured provider.
func (rt *runtime) provider(ctx context.Context) (llm.Provider, error) {
	return newProvider(ctx, rt.cfg.LLMOptions(rt.log.Component("llm")))
}

// buildAgent wires memory, planner and executor around provider. Token counts
// and confirmation prompts go to out through confirmer.
func (rt *runtime) buildAgent(provider llm.Provider, confirmer toolexecutor.Confirmer, out io.Writer) (*agent.Agent, error) {
	zl := rt.log.Component("agent")

	counter := toolexecutor.TokenCounterConfig{
		Writer:      out,
		Confirmer:   confirmer,
		Interactive: rt.cfg.Tools.Interactive && confirmer != nil,
	}
	if rt.cfg.Tools.TokenGate {
		provider = llm.WithTokenGate(provider, toolexecutor.NewTokenCounter(counter))
	}

	plannerOpts := []planner.Option{planner.WithLogger(zl)}
	if rt.cfg.Agent.PromptTemplate != "" {
		plannerOpts = append(plannerOpts, planner.WithTemplate(rt.cfg.Agent.PromptTemplate))
	}
	if len(rt.cfg.Agent.KnownTools) > 0 {
		plannerOpts = append(plannerOpts, planner.WithKnownTools(rt.cfg.Agent.KnownTools))
	}

	executor := toolexecutor.NewExecutor(nil, rt.log.Component("executor"),
		toolexecutor.WithObserver(rt.metrics),
		toolexecutor.WithBuiltins(toolexecutor.BuiltinConfig{TokenCounter: counter}),
	)

	return agent.New(
		memory.New(memory.Config{MaxTurns: rt.cfg.Memory.MaxTurns, Logger: rt.log.Component("memory")}),
		planner.New(provider, plannerOpts...),
		executor,
		agent.WithLogger(zl),
		agent.WithObserver(rt.metrics),
	)
}

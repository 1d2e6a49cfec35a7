package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harun/agentbuilder/pkg/llm"
)

type fakeProvider struct {
	*llm.ScriptedProvider
	models []string
}

func (f fakeProvider) ListModels(context.Context) ([]string, error) {
	return f.models, nil
}

// stubProvider makes every command use fake and records the configs it was built with.
func stubProvider(t *testing.T, fake fakeProvider) *[]llm.Config {
	t.Helper()
	var built []llm.Config
	original := newProvider
	newProvider = func(_ context.Context, cfg llm.Config) (llm.Provider, error) {
		built = append(built, cfg)
		return fake, nil
	}
	t.Cleanup(func() { newProvider = original })
	return &built
}

// execute runs the root command with fresh flag state, an isolated HOME and stdin.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return executeEnv(t, nil, stdin, args...)
}

// executeEnv is execute with env applied after the provider variables are cleared.
func executeEnv(t *testing.T, env map[string]string, stdin string, args ...string) (string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	for _, name := range []string{"LLM_PROVIDER", "LLM_MODEL", "AGENTBUILDER_LLM_PROVIDER", "AGENTBUILDER_LLM_MODEL", "ANTHROPIC_API_KEY", "ANTHROPIC_MODELS", "OPENAI_API_KEY"} {
		t.Setenv(name, "")
	}
	for name, value := range env {
		t.Setenv(name, value)
	}

	cfgFile, logLevel = "", ""
	chatOpts.provider, chatOpts.model = "", ""
	chatOpts.noFormat, chatOpts.fullDetails, chatOpts.tokenGate = false, false, false
	modelsProvider = ""
	serveOpts.host, serveOpts.port = "", 0

	cmd := GetRootCmd()
	for _, c := range append(cmd.Commands(), cmd) {
		for _, name := range []string{"help", "version"} {
			if f := c.Flags().Lookup(name); f != nil {
				require.NoError(t, f.Value.Set("false"))
			}
		}
	}

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

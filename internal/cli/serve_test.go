package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harun/agentbuilder/internal/config"
	"github.com/harun/agentbuilder/internal/logger"
	"github.com/harun/agentbuilder/internal/metrics"
	"github.com/harun/agentbuilder/pkg/gateway"
	"github.com/harun/agentbuilder/pkg/llm"
)

func TestNewGateway(t *testing.T) {
	stubProvider(t, fakeProvider{ScriptedProvider: llm.NewScriptedProvider("echo: served", "echo: again")})

	log, err := logger.New(logger.Config{Level: "error"})
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.Tools.TokenGate = true
	rt := &runtime{cfg: cfg, log: log, metrics: metrics.NewMetrics()}

	server, err := newGateway(context.Background(), rt)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", server.Addr())

	ts := httptest.NewServer(server.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/act", "application/json", strings.NewReader(`{"input":"hi"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out gateway.ActResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "Echo: served", out.Text)

	metricsResp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	assert.Equal(t, http.StatusOK, metricsResp.StatusCode)
}

func TestServeCommand_Flags(t *testing.T) {
	cmd := GetRootCmd()
	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	assert.NotNil(t, serve.Flags().Lookup("host"))
	assert.NotNil(t, serve.Flags().Lookup("port"))
}

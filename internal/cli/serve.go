package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harun/agentbuilder/pkg/gateway"
)

var serveOpts struct {
	host string
	port int
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the agent over HTTP and websocket",
	Long: `Start the gateway server. One agent and one memory are shared by all
clients; requests are handled one at a time. Metrics are served at /metrics.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveOpts.host, "host", "", "listen host, overrides gateway.host")
	serveCmd.Flags().IntVar(&serveOpts.port, "port", 0, "listen port, overrides gateway.port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if serveOpts.host != "" {
		rt.cfg.Gateway.Host = serveOpts.host
	}
	if serveOpts.port != 0 {
		rt.cfg.Gateway.Port = serveOpts.port
	}
	if err := rt.cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := newGateway(ctx, rt)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s\n", displayName(rt.cfg.LLM.Provider), server.Addr())
	return server.ListenAndServe(ctx)
}

// newGateway builds a non-interactive agent and the server around it.
func newGateway(ctx context.Context, rt *runtime) (*gateway.Server, error) {
	p, err := rt.provider(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", displayName(rt.cfg.LLM.Provider), err)
	}

	a, err := rt.buildAgent(p, nil, nil)
	if err != nil {
		return nil, err
	}

	return gateway.NewServer(gateway.Config{
		Host:            rt.cfg.Gateway.Host,
		Port:            rt.cfg.Gateway.Port,
		SharedSecret:    rt.cfg.Gateway.SharedSecret,
		Agent:           a,
		FormatResponse:  rt.cfg.Agent.FormatResponse,
		ShowFullDetails: rt.cfg.Agent.ShowFullDetails,
		Observer:        rt.metrics,
		MetricsHandler:  rt.metrics.Handler(),
		Logger:          rt.log.GetZerolog(),
	})
}

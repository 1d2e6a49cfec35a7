package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harun/agentbuilder/pkg/agent"
	"github.com/harun/agentbuilder/pkg/llm"
	"github.com/harun/agentbuilder/pkg/toolexecutor"
)

var chatOpts struct {
	provider    string
	model       string
	noFormat    bool
	fullDetails bool
	tokenGate   bool
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the agent in the terminal",
	Long: `Start an interactive session. Without --provider you pick a provider
and model from a menu. Type 'reset' to clear memory and 'exit' to quit.`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatOpts.provider, "provider", "", "LLM provider (anaconda, anthropic, openai, ollama)")
	chatCmd.Flags().StringVar(&chatOpts.model, "model", "", "model name, skips the model menu")
	chatCmd.Flags().BoolVar(&chatOpts.noFormat, "no-format", false, "print direct answers without formatting")
	chatCmd.Flags().BoolVar(&chatOpts.fullDetails, "full-details", false, "format the full provider payload")
	chatCmd.Flags().BoolVar(&chatOpts.tokenGate, "token-gate", false, "count tokens and confirm before every LLM call")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	ctx := cmd.Context()
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	log := rt.log.Component("cli")

	printBanner(out)

	provider := chatOpts.provider
	if provider == "" {
		provider = selectProvider(in, out)
	}
	rt.cfg.UseProvider(provider)
	if chatOpts.model != "" {
		rt.cfg.LLM.Model = chatOpts.model
	}
	if chatOpts.tokenGate {
		rt.cfg.Tools.TokenGate = true
	}
	if err := rt.cfg.Validate(); err != nil {
		return err
	}

	p, err := rt.provider(ctx)
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", displayName(rt.cfg.LLM.Provider), err)
	}

	if chatOpts.model == "" {
		models, err := listModels(cmd, p)
		if err != nil || len(models) == 0 {
			log.Debug().Err(err).Msg("Model listing failed")
			fmt.Fprintf(out, "No %s models found or API key missing.\n", displayName(rt.cfg.LLM.Provider))
			return nil
		}
		rt.cfg.LLM.Model = selectModel(in, out, rt.cfg.LLM.Provider, models)
		if p, err = rt.provider(ctx); err != nil {
			return fmt.Errorf("failed to start %s: %w", displayName(rt.cfg.LLM.Provider), err)
		}
	}
	fmt.Fprintf(out, "\nUsing %s model: %s\n\n", displayName(rt.cfg.LLM.Provider), rt.cfg.LLM.Model)

	confirmer := toolexecutor.NewCLIConfirmer(in, out, log)
	a, err := rt.buildAgent(p, confirmer, out)
	if err != nil {
		return err
	}

	opts := []agent.ActOption{
		agent.WithFormatting(rt.cfg.Agent.FormatResponse && !chatOpts.noFormat),
		agent.WithFullDetails(rt.cfg.Agent.ShowFullDetails || chatOpts.fullDetails),
	}

	fmt.Fprintln(out, "Type 'exit' to quit, 'reset' to clear memory.")
	return chatLoop(cmd, a, in, out, opts)
}

func chatLoop(cmd *cobra.Command, a *agent.Agent, in *bufio.Reader, out io.Writer, opts []agent.ActOption) error {
	for {
		fmt.Fprint(out, "You: ")
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		input := strings.TrimSpace(line)

		switch {
		case strings.EqualFold(input, "exit"):
			return nil
		case strings.EqualFold(input, "reset"):
			a.Reset()
			fmt.Fprintln(out, "Memory cleared.")
		case input != "":
			reply := a.Act(cmd.Context(), input, opts...)
			fmt.Fprintf(out, "Agent: %s\n", reply)
		}

		if errors.Is(err, io.EOF) {
			fmt.Fprintln(out)
			return nil
		}
	}
}

func listModels(cmd *cobra.Command, p llm.Provider) ([]string, error) {
	lister, ok := p.(llm.ModelLister)
	if !ok {
		return nil, fmt.Errorf("provider %s cannot list models", p.Name())
	}
	return lister.ListModels(cmd.Context())
}

package cli

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harun/agentbuilder/internal/config"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Choose a default provider and model and save them",
	Long: `Pick a provider and model from the same menus the chat uses and write
them to the config file. API keys are read from the environment, never saved.`,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	rt.cfg.UseProvider(selectProvider(in, out))

	p, err := rt.provider(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", displayName(rt.cfg.LLM.Provider), err)
	}
	if models, err := listModels(cmd, p); err == nil && len(models) > 0 {
		rt.cfg.LLM.Model = selectModel(in, out, rt.cfg.LLM.Provider, models)
	}

	if err := rt.cfg.Validate(); err != nil {
		return err
	}
	saved := *rt.cfg
	saved.LLM.APIKey = ""

	loader := config.NewLoader(cfgFile)
	if err := loader.Save(&saved); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration saved to: %s\n", loader.GetConfigPath())
	fmt.Fprintln(out, "Start chatting with: agentbuilder chat")
	return nil
}

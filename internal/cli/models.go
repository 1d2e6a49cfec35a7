package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harun/agentbuilder/pkg/llm"
)

var modelsProvider string

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models a provider offers",
	RunE:  runModels,
}

func init() {
	modelsCmd.Flags().StringVar(&modelsProvider, "provider", "", "LLM provider, defaults to the configured one")
	rootCmd.AddCommand(modelsCmd)
}

func runModels(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	if modelsProvider != "" {
		rt.cfg.UseProvider(modelsProvider)
	}

	p, err := rt.provider(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", displayName(rt.cfg.LLM.Provider), err)
	}

	models, err := listModels(cmd, p)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		return fmt.Errorf("%s: %w", displayName(rt.cfg.LLM.Provider), llm.ErrNoModels)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Available %s models:\n", displayName(rt.cfg.LLM.Provider))
	for _, m := range models {
		fmt.Fprintf(out, "  %s\n", m)
	}
	return nil
}

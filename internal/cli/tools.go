package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harun/agentbuilder/pkg/toolexecutor"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the agent can invoke",
	RunE:  runTools,
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	reg := toolexecutor.NewRegistry()
	if err := toolexecutor.RegisterBuiltins(reg, toolexecutor.BuiltinConfig{}); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Available tools:")
	for _, def := range reg.Definitions() {
		fmt.Fprintf(out, "  %s - %s\n", def.Name, def.Description)
		for _, p := range def.ContextSchema {
			fmt.Fprintf(out, "      %s (%s): %s\n", p.Name, p.Type, p.Description)
		}
	}
	return nil
}

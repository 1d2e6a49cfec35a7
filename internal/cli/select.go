package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/harun/agentbuilder/pkg/llm"
)

type providerChoice struct {
	name    string
	display string
}

// providerChoices is the menu order; the first entry is the fallback.
var providerChoices = []providerChoice{
	{llm.ProviderOllama, "Ollama"},
	{llm.ProviderOpenAI, "OpenAI"},
	{llm.ProviderAnthropic, "Anthropic"},
	{llm.ProviderAnaconda, "Anaconda"},
}

func displayName(provider string) string {
	for _, c := range providerChoices {
		if c.name == provider {
			return c.display
		}
	}
	return provider
}

// readChoice reads a 1-based menu index. ok is false for anything out of range.
func readChoice(in *bufio.Reader, n int) (int, bool) {
	line, _ := in.ReadString('\n')
	idx, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || idx < 1 || idx > n {
		return 0, false
	}
	return idx - 1, true
}

func selectProvider(in *bufio.Reader, out io.Writer) string {
	fmt.Fprintln(out, "Available LLM providers:")
	for i, c := range providerChoices {
		fmt.Fprintf(out, "  %d. %s\n", i+1, c.display)
	}
	fmt.Fprintf(out, "Select a provider (1-%d): ", len(providerChoices))

	idx, ok := readChoice(in, len(providerChoices))
	if !ok {
		fmt.Fprintf(out, "Invalid selection. Defaulting to %s.\n", providerChoices[0].display)
		return providerChoices[0].name
	}
	return providerChoices[idx].name
}

func selectModel(in *bufio.Reader, out io.Writer, provider string, models []string) string {
	fmt.Fprintf(out, "Available %s models:\n", displayName(provider))
	for i, m := range models {
		fmt.Fprintf(out, "  %d. %s\n", i+1, m)
	}
	fmt.Fprintf(out, "Select a model (1-%d): ", len(models))

	idx, ok := readChoice(in, len(models))
	if !ok {
		fmt.Fprintln(out, "Invalid selection. Using the first model.")
		return models[0]
	}
	return models[idx]
}

func printBanner(out io.Writer) {
	fmt.Fprintln(out, "+------------------------------------+")
	fmt.Fprintf(out, "|  Agent Builder %-20s|\n", "v"+version)
	fmt.Fprintln(out, "|  plan -> execute -> remember       |")
	fmt.Fprintln(out, "+------------------------------------+")
	fmt.Fprintln(out)
}

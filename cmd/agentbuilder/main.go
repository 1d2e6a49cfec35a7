package main

import (
	"os"

	"github.com/harun/agentbuilder/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

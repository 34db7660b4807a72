// Package main is the entry point for the idplens CLI.
package main

import (
	"os"

	"github.com/custodia-labs/idplens-cli/internal/adapters/driving/cli"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	cli.SetVersionInfo(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

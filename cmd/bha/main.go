// Package main provides the entry point for the bha CLI, a thin
// external collaborator over the pure analysis core (pkg/traceparse,
// pkg/aggregate, pkg/depgraph, pkg/suggest, pkg/export).
package main

import (
	"fmt"
	"os"

	"github.com/Sumatoshi-tech/bha/cmd/bha/commands"
)

// version is set via -ldflags "-X main.version=..." at release build
// time; it defaults to "dev" for local builds.
var version = "dev"

func main() {
	root := commands.NewRootCommand(version)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the bha root command with its three verbs,
// mirroring the teacher's one-constructor-per-verb cobra layout
// (cmd/codefang/commands.NewAnalyzeCommand/NewRenderCommand).
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "bha",
		Short: "Build Hotspot Analyzer — compile-time optimization suggestions from compiler trace files",
		Long: `bha ingests clang -ftime-trace (Chrome-trace JSON) build traces, aggregates
include/template/symbol/dependency metrics across one or more translation
units, and derives a ranked list of compile-time optimization suggestions
(precompiled headers, forward declarations, unity builds, module migration).

Commands:
  analyze   Aggregate traces into file/include/template/dependency metrics
  suggest   Generate ranked compile-time optimization suggestions
  export    Render results as JSON, CSV, SARIF, or Markdown`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	root.AddCommand(NewAnalyzeCommand())
	root.AddCommand(NewSuggestCommand())
	root.AddCommand(NewExportCommand())

	return root
}

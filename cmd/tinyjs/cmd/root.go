package cmd

import (
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "tinyjs",
	Short: "tinyjs is an embeddable ECMAScript-subset interpreter",
	Long: `tinyjs runs, tokenizes, or parses scripts against the tinyjs
execution engine (string interning, a shaped heap with inline caches,
a hybrid refcount/cycle-collecting GC, and suspendable async/generator
Tasks) exposed by the pkg/tinyjs embedding facade.`,
}

// Execute runs the root command; main's only job is to report its error.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

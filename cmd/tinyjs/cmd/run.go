package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/tinyjs/pkg/tinyjs"
	"github.com/spf13/cobra"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a tinyjs script",
	Long: `Run evaluates a script to completion, draining every microtask
(promise reaction, awaited continuation) it schedules before exiting.

If no file is given, reads from stdin. Use -e to run an inline script
from the command line instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "run an inline script from the command line")
}

func runRun(cmd *cobra.Command, args []string) error {
	input, err := readScriptInput(evalExpr, args)
	if err != nil {
		return err
	}

	it := tinyjs.New(tinyjs.DefaultConfig())
	result, err := it.Run(input)
	if err != nil {
		return fmt.Errorf("runtime error: %w", err)
	}
	if verbose && result != nil {
		fmt.Fprintln(os.Stdout, result.String())
	}
	return nil
}

// readScriptInput resolves a script's source text from an inline -e
// expression, a file argument, or stdin, in that priority order.
func readScriptInput(inline string, args []string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("error reading file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("error reading stdin: %w", err)
	}
	return string(data), nil
}

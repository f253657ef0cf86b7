// Command tinyjs is the embeddable engine's own CLI wrapper: run a
// script, tokenize it, or print its parsed AST, for manual poking at
// the engine without writing a Go host program.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/tinyjs/cmd/tinyjs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

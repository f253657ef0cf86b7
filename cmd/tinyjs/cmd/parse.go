package cmd

import (
	"fmt"

	"github.com/cwbudde/tinyjs/internal/ast"
	"github.com/cwbudde/tinyjs/internal/parser"
	"github.com/spf13/cobra"
)

var parseExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a tinyjs script and print its top-level statements",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseExpr, "eval", "e", "", "parse an inline script from the command line")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, err := readScriptInput(parseExpr, args)
	if err != nil {
		return err
	}

	prog, errs := parser.ParseProgram(input)
	if len(errs) > 0 {
		for _, msg := range errs {
			fmt.Println("parse error:", msg)
		}
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	fmt.Printf("Program (%d statements)\n", len(prog.Statements))
	for _, stmt := range prog.Statements {
		dumpStatement(stmt, 1)
	}
	return nil
}

func dumpStatement(stmt ast.Statement, indent int) {
	prefix := ""
	for i := 0; i < indent; i++ {
		prefix += "  "
	}
	fmt.Printf("%s%T: %s\n", prefix, stmt, stmt.String())
	if block, ok := stmt.(*ast.BlockStatement); ok {
		for _, s := range block.Statements {
			dumpStatement(s, indent+1)
		}
	}
}

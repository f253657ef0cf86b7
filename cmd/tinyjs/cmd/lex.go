package cmd

import (
	"fmt"

	"github.com/cwbudde/tinyjs/internal/lexer"
	"github.com/spf13/cobra"
)

var (
	lexExpr        string
	lexOnlyIllegal bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a tinyjs script and print its tokens",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&lexExpr, "eval", "e", "", "tokenize an inline script from the command line")
	lexCmd.Flags().BoolVar(&lexOnlyIllegal, "only-errors", false, "print only ILLEGAL tokens")
}

func runLex(cmd *cobra.Command, args []string) error {
	input, err := readScriptInput(lexExpr, args)
	if err != nil {
		return err
	}

	l := lexer.New(input)
	illegalCount := 0
	for {
		tok := l.NextToken()
		if tok.Type == lexer.ILLEGAL {
			illegalCount++
		}
		if !lexOnlyIllegal || tok.Type == lexer.ILLEGAL {
			printToken(tok)
		}
		if tok.Type == lexer.EOF {
			break
		}
	}
	if illegalCount > 0 {
		return fmt.Errorf("lexing found %d illegal token(s)", illegalCount)
	}
	return nil
}

func printToken(tok lexer.Token) {
	if tok.Type == lexer.ILLEGAL {
		fmt.Printf("ILLEGAL: %q @%d:%d\n", tok.Literal, tok.Line, tok.Column)
		return
	}
	fmt.Printf("[%s] %q @%d:%d\n", tok.Type, tok.Literal, tok.Line, tok.Column)
}

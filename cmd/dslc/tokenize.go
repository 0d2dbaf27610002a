package main

import (
	"fmt"
	"os"

	"github.com/michelematteini/dslmanager/driver/lexer"
	"github.com/spf13/cobra"
)

var tokenizeFlags = struct {
	source *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "tokenize <grammar file path>",
		Short:   "Tokenize a text stream",
		Example: `  cat src | dslc tokenize calc.ebnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runTokenize,
	}
	tokenizeFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	rootCmd.AddCommand(cmd)
}

func runTokenize(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverError(&retErr)

	c, err := readCompiler(args[0])
	if err != nil {
		return err
	}
	_, _, lexTab, err := c.Language()
	if err != nil {
		return err
	}
	src, err := readSource(*tokenizeFlags.source)
	if err != nil {
		return err
	}

	l := lexer.NewLexer(lexer.NewLexSpec(lexTab), src)
	for {
		tok, err := l.Next()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%v:%v: %v\n", tok.Row, tok.Col+1, tok.GrammarToken().String())
		if tok.Lexeme != "" && !tok.NewLine {
			fmt.Fprintf(os.Stdout, "    %#v\n", tok.Lexeme)
		}
		if tok.EOF {
			break
		}
	}
	return nil
}

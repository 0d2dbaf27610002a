package main

import (
	"os"

	"github.com/michelematteini/dslmanager/compiler"
	"github.com/michelematteini/dslmanager/driver"
	"github.com/michelematteini/dslmanager/driver/lexer"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	source    *string
	onlyParse *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <grammar file path>",
		Short:   "Parse a text stream and print its syntax tree",
		Example: `  cat src | dslc parse calc.ebnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	parseFlags.onlyParse = cmd.Flags().Bool("only-parse", false, "when this option is enabled, the parser checks the syntax and prints no tree")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverError(&retErr)

	c, err := readCompiler(args[0])
	if err != nil {
		return err
	}
	src, err := readSource(*parseFlags.source)
	if err != nil {
		return err
	}
	tree, err := parseTree(c, src, *parseFlags.onlyParse)
	if err != nil {
		return err
	}
	if tree != nil {
		driver.PrintTree(os.Stdout, tree)
	}
	return nil
}

// parseTree parses a program into its syntax tree. When onlyParse is set it only checks the
// syntax and returns no tree.
func parseTree(c *compiler.BasicCompiler, src string, onlyParse bool) (*driver.Node, error) {
	gram, tab, lexTab, err := c.Language()
	if err != nil {
		return nil, err
	}
	toks, err := lexer.Tokenize(lexTab, src)
	if err != nil {
		return nil, err
	}

	var opts []driver.ParserOption
	if !onlyParse {
		opts = append(opts, driver.MakeTree())
	}
	p, err := driver.NewParser(tab, gram, opts...)
	if err != nil {
		return nil, err
	}
	if onlyParse {
		return nil, p.Check(toks)
	}
	v, err := p.Parse(toks)
	if err != nil {
		return nil, err
	}
	tree, _ := v.(*driver.Node)
	return tree, nil
}

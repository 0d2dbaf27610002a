package main

import (
	"fmt"
	"os"

	"github.com/michelematteini/dslmanager/grammar"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show <grammar file path>",
		Short:   "Print the rules of a grammar before and after normalization",
		Example: `  dslc show calc.ebnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	c, err := readCompiler(args[0])
	if err != nil {
		return err
	}
	gram, _, lexTab, err := c.Language()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "# Rules\n\n%v\n", grammar.FormatRules(c.Rules()))
	fmt.Fprintf(os.Stdout, "# Normalized Rules\n\n%v\n", gram.Describe())
	fmt.Fprintf(os.Stdout, "# Literals\n\n")
	for _, lit := range lexTab.Literals() {
		fmt.Fprintf(os.Stdout, "%v\n", lit)
	}
	return nil
}

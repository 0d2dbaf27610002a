package main

import (
	"os"

	"github.com/michelematteini/dslmanager/lr"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe <grammar file path>",
		Short:   "Print the states, the actions and the conflicts of the parser of a grammar",
		Example: `  dslc describe calc.ebnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverError(&retErr)

	c, err := readCompiler(args[0])
	if err != nil {
		return err
	}
	gram, tab, _, err := c.Language()
	if err != nil {
		return err
	}
	d, err := lr.NewDiagram(gram.Rules)
	if err != nil {
		return err
	}
	return lr.Describe(os.Stdout, d, tab)
}

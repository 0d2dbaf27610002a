package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/michelematteini/dslmanager/tester"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var checkFlags = struct {
	ext *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "check <grammar file path> <source file path>|<source directory path>...",
		Short:   "Check the syntax of programs",
		Example: `  dslc check calc.ebnf programs --ext calc`,
		Args:    cobra.MinimumNArgs(2),
		RunE:    runCheck,
	}
	checkFlags.ext = cmd.Flags().String("ext", "", "extension of the programs read from directories (default all files)")
	rootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	c, err := readCompiler(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a grammar: %w", err)
	}

	var srcs []*tester.SourceWithMetadata
	for _, path := range args[1:] {
		srcs = append(srcs, tester.ListSources(path, *checkFlags.ext)...)
	}
	t := &tester.Tester{
		Compiler: c,
		Sources:  srcs,
	}
	rs := t.Run()
	for _, r := range rs {
		if r.Error != nil {
			pterm.Error.Println(r)
		} else {
			pterm.Success.Println(r)
		}
	}
	if tester.Failed(rs) {
		return errors.New("Check failed")
	}
	fmt.Fprintf(os.Stdout, "%v programs passed\n", len(rs))
	return nil
}

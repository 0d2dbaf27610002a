package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/michelematteini/dslmanager/grammar/lexical"
	"github.com/michelematteini/dslmanager/lr"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile <grammar file path>",
		Short:   "Compile a grammar into its parsing and lexer tables",
		Example: `  dslc compile calc.ebnf -o calc.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	rootCmd.AddCommand(cmd)
}

type compiledRule struct {
	Text string `json:"text"`

	// Origin is the index of the authored rule, or -1 for synthetic rules.
	Origin      int `json:"origin"`
	Alternative int `json:"alternative"`
}

type compiledLanguage struct {
	Name             string               `json:"name"`
	Rules            []compiledRule       `json:"rules"`
	ParseTable       []lr.Entry           `json:"parse_table"`
	Conflicts        int                  `json:"conflicts"`
	Literals         []string             `json:"literals"`
	LexerStates      []lexical.StateEntry `json:"lexer_states"`
	LexerTransitions []lexical.Transition `json:"lexer_transitions"`
}

func runCompile(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverError(&retErr)

	c, err := readCompiler(args[0])
	if err != nil {
		return err
	}
	gram, tab, lexTab, err := c.Language()
	if err != nil {
		return err
	}

	lang := &compiledLanguage{
		Name:             c.DebugName(),
		ParseTable:       tab.Entries(),
		Conflicts:        len(tab.Conflicts()),
		Literals:         lexTab.Literals(),
		LexerStates:      lexTab.States(),
		LexerTransitions: lexTab.Transitions(),
	}
	for i, r := range gram.Rules {
		lang.Rules = append(lang.Rules, compiledRule{
			Text:        r.String(),
			Origin:      gram.Provenance[i],
			Alternative: r.Alternative,
		})
	}

	var w io.Writer = os.Stdout
	if *compileFlags.output != "" {
		f, err := os.OpenFile(*compileFlags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	b, err := json.Marshal(lang)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%v\n", string(b))
	if err != nil {
		return fmt.Errorf("Cannot write an output file: %w", err)
	}
	if lang.Conflicts > 0 {
		fmt.Fprintf(os.Stderr, "%v conflicts\n", lang.Conflicts)
	}
	return nil
}

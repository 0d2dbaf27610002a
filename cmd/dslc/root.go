package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/npillmayer/schuko/gconf"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var rootCmd = &cobra.Command{
	Use:   "dslc",
	Short: "Build and run parsers for languages defined by an EBNF grammar",
	Long: `dslc reads a grammar written in EBNF and derives an LR(1) parser and a lexer from it.
It can:
- Print the normalized grammar and the automaton of the parser.
- Tokenize, check and parse programs of the language.
- Export the tables of the language as JSON.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().String("trace", "Error", "trace level [Debug|Info|Error]")
	rootCmd.PersistentFlags().Bool("panic-on-error", false, "panic when the parser finds a corrupt parse table")
}

func setup(cmd *cobra.Command, args []string) error {
	initDisplay()
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	gconf.Initialize(newFlagConfig(cmd.Flags()))
	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
	level := tracing.TraceLevelFromString(gconf.GetString("trace"))
	tracer().SetTraceLevel(level)
	tracing.Select("dslmanager").SetTraceLevel(level)
	return nil
}

func tracer() tracing.Trace {
	return gtrace.SyntaxTracer
}

// flagConfig serves the global configuration from the flags of a command. Keys without a
// flag fall back to the defaults.
type flagConfig struct {
	flags    *pflag.FlagSet
	defaults map[string]string
}

func newFlagConfig(flags *pflag.FlagSet) *flagConfig {
	return &flagConfig{
		flags:    flags,
		defaults: map[string]string{},
	}
}

var globalTraceKeys = []string{
	"tracinginterpreter",
	"tracingcommands",
	"tracingequations",
	"tracingsyntax",
	"tracinggraphics",
	"tracingscripting",
	"tracingcore",
	"tracingengine",
}

func (c *flagConfig) InitDefaults() {
	c.defaults["tracing.adapter"] = "go"
	for _, key := range globalTraceKeys {
		c.defaults[key] = c.GetString("trace")
	}
}

func (c *flagConfig) IsSet(key string) bool {
	if f := c.flags.Lookup(key); f != nil {
		return true
	}
	_, ok := c.defaults[key]
	return ok
}

func (c *flagConfig) GetString(key string) string {
	if f := c.flags.Lookup(key); f != nil {
		return f.Value.String()
	}
	return c.defaults[key]
}

func (c *flagConfig) GetInt(key string) int {
	n, _ := strconv.Atoi(c.GetString(key))
	return n
}

func (c *flagConfig) GetBool(key string) bool {
	b, _ := strconv.ParseBool(c.GetString(key))
	return b
}

func (c *flagConfig) IsInteractive() bool {
	return false
}

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

package main

import (
	"testing"

	"github.com/npillmayer/schuko/gconf"
	"github.com/spf13/cobra"
)

func TestSetup_Configuration(t *testing.T) {
	tests := []struct {
		caption      string
		args         []string
		panicOnError bool
		trace        string
	}{
		{
			caption:      "the defaults of the flags",
			panicOnError: false,
			trace:        "Error",
		},
		{
			caption:      "flags reach the global configuration",
			args:         []string{"--panic-on-error", "--trace", "Debug"},
			panicOnError: true,
			trace:        "Debug",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			cmd := &cobra.Command{Use: "sub"}
			rootCmd.AddCommand(cmd)
			defer func() {
				rootCmd.RemoveCommand(cmd)
				rootCmd.PersistentFlags().Set("panic-on-error", "false")
				rootCmd.PersistentFlags().Set("trace", "Error")
			}()

			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}
			if err := setup(cmd, nil); err != nil {
				t.Fatal(err)
			}
			if gconf.GetBool("panic-on-error") != tt.panicOnError {
				t.Fatalf("unexpected panic-on-error; want: %v", tt.panicOnError)
			}
			if gconf.GetString("trace") != tt.trace {
				t.Fatalf("unexpected trace level; want: %v, got: %v", tt.trace, gconf.GetString("trace"))
			}
			if gconf.GetString("tracingsyntax") != tt.trace {
				t.Fatalf("the global tracers must follow the trace level; got: %v", gconf.GetString("tracingsyntax"))
			}
			if gconf.GetBool("missing") {
				t.Fatal("an unknown key must be false")
			}
		})
	}
}

package main

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/michelematteini/dslmanager/compiler"
	"github.com/michelematteini/dslmanager/driver"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "repl <grammar file path>",
		Short:   "Parse programs entered line by line and print their syntax trees",
		Example: `  dslc repl calc.ebnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runREPL,
	}
	rootCmd.AddCommand(cmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	c, err := readCompiler(args[0])
	if err != nil {
		return err
	}
	rl, err := readline.New(c.DebugName() + "> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	pterm.Info.Println(fmt.Sprintf("Grammar %v loaded. Quit with <ctrl>D", c.DebugName()))
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		eval(c, line)
	}
	pterm.Info.Println("Good bye!")
	return nil
}

func eval(c *compiler.BasicCompiler, line string) {
	defer func() {
		if v := recover(); v != nil {
			pterm.Error.Println(v)
		}
	}()

	tree, err := parseTree(c, line, false)
	if err != nil {
		pterm.Error.Println(err)
		return
	}
	if tree == nil {
		pterm.Info.Println("nil")
		return
	}
	root := pterm.NewTreeFromLeveledList(leveledTree(tree, pterm.LeveledList{}, 0))
	pterm.DefaultTree.WithRoot(root).Render()
}

func leveledTree(node *driver.Node, ll pterm.LeveledList, level int) pterm.LeveledList {
	text := node.KindName
	if node.Text != "" {
		text = node.KindName + " " + node.Text
	}
	ll = append(ll, pterm.LeveledListItem{
		Level: level,
		Text:  text,
	})
	for _, child := range node.Children {
		ll = leveledTree(child, ll, level+1)
	}
	return ll
}

package driver

import (
	"fmt"
	"io"

	"github.com/michelematteini/dslmanager/grammar"
)

type Node struct {
	KindName string
	Text     string
	Row      int
	Children []*Node
}

func PrintTree(w io.Writer, node *Node) {
	printTree(w, node, "", "")
}

func printTree(w io.Writer, node *Node, ruledLine string, childRuledLinePrefix string) {
	if node == nil {
		return
	}

	if node.Text != "" {
		fmt.Fprintf(w, "%v%v %#v\n", ruledLine, node.KindName, node.Text)
	} else {
		fmt.Fprintf(w, "%v%v\n", ruledLine, node.KindName)
	}

	num := len(node.Children)
	for i, child := range node.Children {
		var line string
		if num > 1 && i < num-1 {
			line = "├─ "
		} else {
			line = "└─ "
		}

		var prefix string
		if i >= num-1 {
			prefix = "   "
		} else {
			prefix = "│  "
		}

		printTree(w, child, childRuledLinePrefix+line, childRuledLinePrefix+prefix)
	}
}

// TreeTranslators returns semantic actions that build the concrete syntax tree of the
// authored rules. Every rule yields a *Node named by its left-hand symbol whose children are
// its tokens and subtrees in source order; the parts of the rule the normalization turned
// into synthetic rules do not appear as nodes of their own.
func TreeTranslators(src []*grammar.DerivationRule) Translators {
	ts := Translators{}
	for i, r := range src {
		ts.Set(i, newTreeTranslator(r.LHS.Name))
	}
	return ts
}

func newTreeTranslator(kindName string) Translator {
	return func(args *Args) (interface{}, error) {
		node := &Node{
			KindName: kindName,
			Row:      args.Line,
			Children: make([]*Node, 0, len(args.Symbols)),
		}
		for _, sym := range args.Symbols {
			switch v := sym.Value.(type) {
			case grammar.Token:
				node.Children = append(node.Children, &Node{
					KindName: v.Class().String(),
					Text:     v.Text,
					Row:      sym.Line,
				})
			case *Node:
				node.Children = append(node.Children, v)
			default:
				node.Children = append(node.Children, &Node{
					KindName: sym.Name,
					Text:     fmt.Sprint(v),
					Row:      sym.Line,
				})
			}
		}
		return node, nil
	}
}

package driver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/michelematteini/dslmanager/driver/lexer"
	verr "github.com/michelematteini/dslmanager/error"
	"github.com/michelematteini/dslmanager/grammar"
	"github.com/michelematteini/dslmanager/grammar/ebnf"
	"github.com/michelematteini/dslmanager/grammar/lexical"
	"github.com/michelematteini/dslmanager/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const arithmeticGrammar = `Expr ::= Expr, '+', Expr | Expr, '*', Expr | #int;`

const listGrammar = `
(* a parenthesized list *)
List ::= '(', [ Item, { ',', Item }* ], ')';
Item ::= #int | #name;
`

type testGrammar struct {
	gram  *grammar.Normalized
	tab   *lr.ParseTable
	lexer *lexical.LexerTable
}

func newTestGrammar(t *testing.T, src string, prios grammar.PriorityMap) *testGrammar {
	t.Helper()

	rules, err := ebnf.ParseGrammar(src)
	if err != nil {
		t.Fatal(err)
	}
	gram, err := grammar.Normalize(rules)
	if err != nil {
		t.Fatal(err)
	}
	d, err := lr.NewDiagram(gram.Rules)
	if err != nil {
		t.Fatal(err)
	}
	tab, err := lr.NewParseTable(d, gram.Priorities(prios), nil)
	if err != nil {
		t.Fatal(err)
	}
	return &testGrammar{
		gram:  gram,
		tab:   tab,
		lexer: lexical.Build(gram.Literals()),
	}
}

func (g *testGrammar) tokenize(t *testing.T, src string) []grammar.Token {
	t.Helper()

	toks, err := lexer.Tokenize(g.lexer, src)
	if err != nil {
		t.Fatal(err)
	}
	return toks
}

func arithmeticTranslators() Translators {
	ts := Translators{}
	ts.SetAlternative(0, 0, func(args *Args) (interface{}, error) {
		return args.Values.Get("Expr", 0).(int) + args.Values.Get("Expr", 1).(int), nil
	})
	ts.SetAlternative(0, 1, func(args *Args) (interface{}, error) {
		return args.Values.Get("Expr", 0).(int) * args.Values.Get("Expr", 1).(int), nil
	})
	ts.SetAlternative(0, 2, func(args *Args) (interface{}, error) {
		return strconv.Atoi(args.Tokens.Get("#int", 0).Text)
	})
	return ts
}

func arithmeticPriorities() grammar.PriorityMap {
	prios := grammar.PriorityMap{}
	prios.SetAlternative(0, 1, grammar.ReduceOver(grammar.Default))
	return prios
}

func TestParser_Arithmetic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dslmanager.driver")
	defer teardown()

	g := newTestGrammar(t, arithmeticGrammar, arithmeticPriorities())
	p, err := NewParser(g.tab, g.gram, WithTranslators(arithmeticTranslators()))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		caption string
		src     string
		value   int
	}{
		{
			caption: "a product binds tighter than a sum on its right",
			src:     "2+3*4",
			value:   14,
		},
		{
			caption: "a product binds tighter than a sum on its left",
			src:     "2*3+4",
			value:   10,
		},
		{
			caption: "sums chain",
			src:     "1+2+3",
			value:   6,
		},
		{
			caption: "products chain across lines",
			src:     "2*\n3*\n4",
			value:   24,
		},
		{
			caption: "a single operand",
			src:     "7",
			value:   7,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			v, err := p.Parse(g.tokenize(t, tt.src))
			if err != nil {
				t.Fatal(err)
			}
			if v != tt.value {
				t.Fatalf("unexpected value; want: %v, got: %v", tt.value, v)
			}
		})
	}
}

func TestParser_NestedOptionalAndRepetition(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dslmanager.driver")
	defer teardown()

	g := newTestGrammar(t, listGrammar, nil)

	var listArgs *Args
	ts := Translators{}
	ts.Set(0, func(args *Args) (interface{}, error) {
		listArgs = args
		return args.Values.List("Item"), nil
	})
	ts.Set(1, func(args *Args) (interface{}, error) {
		return args.ParsedCode, nil
	})
	p, err := NewParser(g.tab, g.gram, WithTranslators(ts))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		caption    string
		src        string
		items      []string
		symbols    []string
		parsedCode string
	}{
		{
			caption:    "values and tokens of a repetition inside an optional keep their order",
			src:        "(1, b, 3)",
			items:      []string{"1", "b", "3"},
			symbols:    []string{"(", "Item", ",", "Item", ",", "Item", ")"},
			parsedCode: "( 1 , b , 3 )",
		},
		{
			caption:    "a single item skips the repetition",
			src:        "(x)",
			items:      []string{"x"},
			symbols:    []string{"(", "Item", ")"},
			parsedCode: "( x )",
		},
		{
			caption:    "an omitted optional binds nothing",
			src:        "()",
			items:      nil,
			symbols:    []string{"(", ")"},
			parsedCode: "( )",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			listArgs = nil
			v, err := p.Parse(g.tokenize(t, tt.src))
			if err != nil {
				t.Fatal(err)
			}
			items := v.([]interface{})
			if len(items) != len(tt.items) {
				t.Fatalf("unexpected items; want: %v, got: %v", tt.items, items)
			}
			for i, item := range tt.items {
				if items[i] != item {
					t.Fatalf("unexpected item #%v; want: %v, got: %v", i, item, items[i])
				}
			}
			if listArgs == nil {
				t.Fatal("the action of the list must run")
			}
			if len(listArgs.Symbols) != len(tt.symbols) {
				t.Fatalf("unexpected symbols: %v", listArgs.Symbols)
			}
			for i, name := range tt.symbols {
				if listArgs.Symbols[i].Name != name {
					t.Fatalf("unexpected symbol #%v; want: %v, got: %v", i, name, listArgs.Symbols[i].Name)
				}
			}
			if listArgs.Tokens.Count(",") != len(tt.items)-1 && len(tt.items) > 0 {
				t.Fatalf("unexpected count of separators: %v", listArgs.Tokens.Count(","))
			}
			if listArgs.ParsedCode != tt.parsedCode {
				t.Fatalf("unexpected parsed code; want: %q, got: %q", tt.parsedCode, listArgs.ParsedCode)
			}
			if listArgs.Line != 1 {
				t.Fatalf("unexpected line: %v", listArgs.Line)
			}
		})
	}
}

const assignmentGrammar = `
Assignment ::= Item, '=', Item, ';';
Item ::= #int | #name;
`

func TestParser_ReductionKeepsItsHandle(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dslmanager.driver")
	defer teardown()

	g := newTestGrammar(t, assignmentGrammar, nil)
	ts := Translators{}
	ts.Set(0, func(args *Args) (interface{}, error) {
		var names []string
		for _, sym := range args.Symbols {
			names = append(names, sym.Name)
		}
		return fmt.Sprintf("%v <- %v [%v]", args.Values.Get("Item", 0), args.Values.Get("Item", 1), strings.Join(names, " ")), nil
	})
	ts.Set(1, func(args *Args) (interface{}, error) {
		return args.ParsedCode, nil
	})
	p, err := NewParser(g.tab, g.gram, WithTranslators(ts))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		caption  string
		src      string
		expected string
	}{
		{
			caption:  "the first value of the handle survives the goto",
			src:      "a = 1;",
			expected: "a <- 1 [Item = Item ;]",
		},
		{
			caption:  "a parser runs again on the same tables",
			src:      "2 = b;",
			expected: "2 <- b [Item = Item ;]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			v, err := p.Parse(g.tokenize(t, tt.src))
			if err != nil {
				t.Fatal(err)
			}
			if v != tt.expected {
				t.Fatalf("unexpected value; want: %q, got: %q", tt.expected, v)
			}
		})
	}
}

func TestParser_Check(t *testing.T) {
	g := newTestGrammar(t, listGrammar, nil)
	called := false
	ts := Translators{}
	ts.Set(0, func(args *Args) (interface{}, error) {
		called = true
		return nil, nil
	})
	p, err := NewParser(g.tab, g.gram, WithTranslators(ts))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Check(g.tokenize(t, "(1, 2)")); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Fatal("a syntax check must not run semantic actions")
	}
	if err := p.Check(g.tokenize(t, "(1 2)")); err == nil {
		t.Fatal("an error must occur")
	}
}

func TestParser_Errors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dslmanager.driver")
	defer teardown()

	g := newTestGrammar(t, arithmeticGrammar, arithmeticPriorities())
	boom := errors.New("boom")

	tests := []struct {
		caption string
		src     string
		onInt   func(text string) (interface{}, error)
		code    string
		line    int
		test    func(t *testing.T, err error)
	}{
		{
			caption: "a token without an action",
			src:     "2+",
			code:    verr.CodeUnexpectedToken,
			line:    1,
			test: func(t *testing.T, err error) {
				synErr, ok := err.(*verr.SyntaxError)
				if !ok {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(synErr.Expected) != 1 || synErr.Expected[0] != "#int" {
					t.Fatalf("unexpected expected tokens: %v", synErr.Expected)
				}
			},
		},
		{
			caption: "the line of an unexpected token",
			src:     "2+\n\n*",
			code:    verr.CodeUnexpectedToken,
			line:    3,
		},
		{
			caption: "an empty input",
			src:     "",
			code:    verr.CodeUnreducedInput,
			line:    1,
		},
		{
			caption: "a semantic error gets the line of its rule",
			src:     "1+\n0",
			onInt: func(text string) (interface{}, error) {
				if text == "0" {
					return nil, verr.NewSemanticError("TEST0001", "zero is not allowed")
				}
				return strconv.Atoi(text)
			},
			code: "TEST0001",
			line: 2,
			test: func(t *testing.T, err error) {
				if _, ok := err.(*verr.SemanticError); !ok {
					t.Fatalf("unexpected error: %v", err)
				}
			},
		},
		{
			caption: "any other error of an action is wrapped",
			src:     "1+2",
			onInt: func(text string) (interface{}, error) {
				return nil, boom
			},
			code: verr.CodeTranslation,
			line: 1,
			test: func(t *testing.T, err error) {
				sdtErr, ok := err.(*verr.SDTError)
				if !ok {
					t.Fatalf("unexpected error: %v", err)
				}
				if sdtErr.Rule != "Expr" || !errors.Is(err, boom) {
					t.Fatalf("unexpected translation error: %v", sdtErr)
				}
			},
		},
		{
			caption: "a panic inside an action is recovered",
			src:     "1",
			onInt: func(text string) (interface{}, error) {
				panic("unreachable")
			},
			code: verr.CodeTranslation,
			line: 1,
			test: func(t *testing.T, err error) {
				if !strings.Contains(err.Error(), "unreachable") {
					t.Fatalf("unexpected error: %v", err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			ts := arithmeticTranslators()
			if tt.onInt != nil {
				onInt := tt.onInt
				ts.SetAlternative(0, 2, func(args *Args) (interface{}, error) {
					return onInt(args.Tokens.Get("#int", 0).Text)
				})
			}
			p, err := NewParser(g.tab, g.gram, WithTranslators(ts))
			if err != nil {
				t.Fatal(err)
			}
			_, err = p.Parse(g.tokenize(t, tt.src))
			if err == nil {
				t.Fatal("an error must occur")
			}
			cerr, ok := verr.AsCompileError(err)
			if !ok {
				t.Fatalf("unexpected error: %v", err)
			}
			if cerr.Code != tt.code {
				t.Fatalf("unexpected code; want: %v, got: %v (%v)", tt.code, cerr.Code, err)
			}
			if cerr.Line != tt.line {
				t.Fatalf("unexpected line; want: %v, got: %v", tt.line, cerr.Line)
			}
			if tt.test != nil {
				tt.test(t, err)
			}
		})
	}
}

func TestParser_MakeTree(t *testing.T) {
	g := newTestGrammar(t, listGrammar, nil)
	p, err := NewParser(g.tab, g.gram, MakeTree())
	if err != nil {
		t.Fatal(err)
	}
	v, err := p.Parse(g.tokenize(t, "(1, b)"))
	if err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	PrintTree(&b, v.(*Node))
	expected := `List
├─ "(" "("
├─ Item
│  └─ #int "1"
├─ "," ","
├─ Item
│  └─ #name "b"
└─ ")" ")"
`
	if b.String() != expected {
		t.Fatalf("unexpected tree; want:\n%v\ngot:\n%v", expected, b.String())
	}
}

func TestNewParser_MismatchedTable(t *testing.T) {
	a := newTestGrammar(t, arithmeticGrammar, nil)
	l := newTestGrammar(t, listGrammar, nil)
	if _, err := NewParser(a.tab, l.gram); err == nil {
		t.Fatal("an error must occur")
	}
}

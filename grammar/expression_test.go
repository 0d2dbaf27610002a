package grammar

import "testing"

func TestExpression_KeyFollowsCanonicalText(t *testing.T) {
	exprs := []Expression{
		v("A"),
		lit("a"),
		lit(`say "hi"`),
		NewClassToken(KindInt),
		NewClassToken(KindID),
		Epsilon,
		EndOfStream,
		NewAnnotation(AnnotationNewLine),
		cat(v("A"), lit("a")),
		cat(lit("a"), v("A")),
		alt(v("A"), lit("a")),
		NewGroup(v("A")),
		NewOptional(v("A")),
		NewRepetition(v("A"), true),
		NewRepetition(v("A"), false),
		cat(v("A"), alt(lit("a"), lit("b"))),
		alt(cat(v("A"), lit("a")), lit("b")),
	}
	for i, a := range exprs {
		for j, b := range exprs {
			sameText := a.String() == b.String()
			sameKey := a.Key() == b.Key()
			if sameText != sameKey {
				t.Fatalf("key and text disagree; #%v: %v, #%v: %v", i, a, j, b)
			}
			if i != j && sameKey {
				t.Fatalf("different expressions share a key; #%v: %v, #%v: %v", i, a, j, b)
			}
		}
	}

	if !Equal(cat(v("A"), cat(lit("a"), v("B"))), cat(v("A"), lit("a"), v("B"))) {
		t.Fatal("nested concatenations must be flattened")
	}
	if !Equal(NewVariable("A"), newSyntheticVariable("A")) {
		t.Fatal("the synthetic flag must not affect the identity of a variable")
	}
}

func TestExpression_String(t *testing.T) {
	tests := []struct {
		expr Expression
		text string
	}{
		{
			expr: cat(v("A"), lit("+"), NewClassToken(KindInt)),
			text: `A , "+" , #int`,
		},
		{
			expr: cat(v("A"), alt(lit("a"), lit("b"))),
			text: `A , ( "a" | "b" )`,
		},
		{
			expr: alt(NewOptional(v("A")), NewRepetition(v("B"), false), NewRepetition(v("C"), true)),
			text: `[ A ] | { B }+ | { C }*`,
		},
		{
			expr: lit(`a"b`),
			text: `"a""b"`,
		},
		{
			expr: cat(EndOfStream, Epsilon, NewAnnotation(AnnotationNewLine)),
			text: `#$ , #e , @NewLine`,
		},
	}
	for _, tt := range tests {
		if tt.expr.String() != tt.text {
			t.Fatalf("unexpected text; want: %v, got: %v", tt.text, tt.expr.String())
		}
	}

	r := rule("S", cat(v("A"), lit(";")))
	if r.String() != `S ::= A , ";";` {
		t.Fatalf("unexpected rule text: %v", r)
	}
}

func TestToken_Matches(t *testing.T) {
	tests := []struct {
		caption  string
		instance Token
		class    Token
		matches  bool
		binding  string
	}{
		{
			caption:  "an integer matches #int",
			instance: Token{Kind: KindInt, Text: "42"},
			class:    NewClassToken(KindInt),
			matches:  true,
			binding:  "#int",
		},
		{
			caption:  "an integer does not match #real",
			instance: Token{Kind: KindInt, Text: "42"},
			class:    NewClassToken(KindReal),
			matches:  false,
			binding:  "#int",
		},
		{
			caption:  "a literal matches the same literal",
			instance: lit("++"),
			class:    lit("++"),
			matches:  true,
			binding:  "++",
		},
		{
			caption:  "a literal does not match another literal",
			instance: lit("+"),
			class:    lit("++"),
			matches:  false,
			binding:  "+",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			if tt.instance.Matches(tt.class) != tt.matches {
				t.Fatalf("unexpected match result; want: %v", tt.matches)
			}
			if tt.matches && tt.instance.Key() != tt.class.Key() {
				t.Fatal("a matching instance must share the key of its class")
			}
			if tt.instance.BindingName() != tt.binding {
				t.Fatalf("unexpected binding name; want: %v, got: %v", tt.binding, tt.instance.BindingName())
			}
		})
	}
}

func TestRule_Symbols(t *testing.T) {
	g := NewGrammar([]*DerivationRule{
		rule("S", cat(v("A"), lit("x"))),
		rule("A", Epsilon),
		rule("A", v("S")),
	})
	if syms := g.Rule(0).Symbols(); len(syms) != 2 {
		t.Fatalf("unexpected symbols: %v", syms)
	}
	if syms := g.Rule(1).Symbols(); len(syms) != 0 || !g.Rule(1).IsEpsilon() {
		t.Fatalf("an epsilon rule must have no symbols: %v", syms)
	}
	if idx := g.RulesOf(v("A")); len(idx) != 2 || idx[0] != 1 || idx[1] != 2 {
		t.Fatalf("unexpected rules of A: %v", idx)
	}
	if s, ok := g.Start(); !ok || s.Name != "S" {
		t.Fatalf("unexpected start symbol: %v", s)
	}
	if len(g.Variables()) != 2 || g.Defines(v("B")) {
		t.Fatalf("unexpected variables: %v", g.Variables())
	}
}

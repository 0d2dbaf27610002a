package lexical

import (
	"testing"

	"github.com/michelematteini/dslmanager/grammar"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

type transitionTest struct {
	c     rune
	state StateID
	next  StateID
	ok    bool
}

func testTransitions(t *testing.T, tab *LexerTable, tests []transitionTest) {
	t.Helper()

	for _, tt := range tests {
		next, ok := tab.Next(tt.c, tt.state)
		if ok != tt.ok {
			t.Fatalf("unexpected transition on %q from %v; want: %v, got: %v", tt.c, tt.state, tt.ok, ok)
		}
		if ok && next != tt.next {
			t.Fatalf("unexpected next state on %q from %v; want: %v, got: %v", tt.c, tt.state, tt.next, next)
		}
	}
}

func TestBuild_GenericStates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dslmanager.lexer")
	defer teardown()

	tab := Build(nil)
	if tab.StateCount() != FirstLiteralState.Int()+2 {
		t.Fatalf("unexpected state count: %v", tab.StateCount())
	}
	stringState := FirstLiteralState
	stringEndState := FirstLiteralState + 1

	testTransitions(t, tab, []transitionTest{
		{c: 'a', state: StateInitial, next: StateName, ok: true},
		{c: 'Z', state: StateInitial, next: StateName, ok: true},
		{c: '7', state: StateInitial, next: StateInt, ok: true},
		{c: '_', state: StateInitial, next: StateIdentifier, ok: true},
		{c: '+', state: StateInitial, ok: false},
		{c: '1', state: StateName, next: StateIdentifier, ok: true},
		{c: '-', state: StateName, next: StateIdentifier, ok: true},
		{c: '-', state: StateIdentifier, next: StateIdentifier, ok: true},
		{c: '.', state: StateInt, next: StateDottedInt, ok: true},
		{c: 'e', state: StateInt, next: StateExpReal, ok: true},
		{c: '.', state: StateDottedInt, ok: false},
		{c: '5', state: StateDottedInt, next: StateReal, ok: true},
		{c: 'e', state: StateReal, next: StateExpReal, ok: true},
		{c: '-', state: StateExpReal, next: StateExpNegReal, ok: true},
		{c: '3', state: StateExpNegReal, next: StateReal, ok: true},
		{c: '"', state: StateInitial, next: stringState, ok: true},
		{c: ' ', state: stringState, next: stringState, ok: true},
		{c: '"', state: stringState, next: stringEndState, ok: true},
		{c: 'x', state: stringEndState, ok: false},
	})

	kinds := []struct {
		state StateID
		kind  grammar.TokenKind
	}{
		{state: StateInitial, kind: grammar.KindEpsilon},
		{state: StateName, kind: grammar.KindName},
		{state: StateIdentifier, kind: grammar.KindID},
		{state: StateInt, kind: grammar.KindInt},
		{state: StateDottedInt, kind: grammar.KindInvalid},
		{state: StateReal, kind: grammar.KindReal},
		{state: StateExpReal, kind: grammar.KindInvalid},
		{state: StateExpNegReal, kind: grammar.KindInvalid},
		{state: stringState, kind: grammar.KindInvalid},
		{state: stringEndState, kind: grammar.KindString},
		{state: StateIDNil, kind: grammar.KindInvalid},
	}
	for _, k := range kinds {
		if tab.Kind(k.state) != k.kind {
			t.Fatalf("unexpected kind of state %v; want: %v, got: %v", k.state, k.kind, tab.Kind(k.state))
		}
	}
}

func TestBuild_Literals(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "dslmanager.lexer")
	defer teardown()

	tests := []struct {
		caption  string
		literals []string
		test     func(t *testing.T, tab *LexerTable)
	}{
		{
			caption:  "a literal sharing the prefix of another reuses its states",
			literals: []string{"++", "+"},
			test: func(t *testing.T, tab *LexerTable) {
				plus := FirstLiteralState
				plusPlus := FirstLiteralState + 1
				testTransitions(t, tab, []transitionTest{
					{c: '+', state: StateInitial, next: plus, ok: true},
					{c: '+', state: plus, next: plusPlus, ok: true},
					{c: '+', state: plusPlus, ok: false},
				})
				if tab.Kind(plus) != grammar.KindLiteral || tab.Kind(plusPlus) != grammar.KindLiteral {
					t.Fatalf("both literals must be recognized")
				}
			},
		},
		{
			caption:  "a keyword keeps the transitions of a name",
			literals: []string{"if"},
			test: func(t *testing.T, tab *LexerTable) {
				i := FirstLiteralState
				f := FirstLiteralState + 1
				testTransitions(t, tab, []transitionTest{
					{c: 'i', state: StateInitial, next: i, ok: true},
					{c: 'f', state: i, next: f, ok: true},
					{c: 'x', state: i, next: StateName, ok: true},
					{c: '1', state: i, next: StateIdentifier, ok: true},
					{c: 'x', state: f, next: StateName, ok: true},
				})
				if tab.Kind(i) != grammar.KindName {
					t.Fatalf("a prefix of a keyword must be classified as a name: %v", tab.Kind(i))
				}
				if tab.Kind(f) != grammar.KindLiteral {
					t.Fatalf("the keyword must be classified as a literal: %v", tab.Kind(f))
				}
			},
		},
		{
			caption:  "a literal made of digits keeps the transitions of an integer",
			literals: []string{"1."},
			test: func(t *testing.T, tab *LexerTable) {
				one := FirstLiteralState
				dot := FirstLiteralState + 1
				testTransitions(t, tab, []transitionTest{
					{c: '1', state: StateInitial, next: one, ok: true},
					{c: '2', state: one, next: StateInt, ok: true},
					{c: '.', state: one, next: dot, ok: true},
					{c: '5', state: dot, next: StateReal, ok: true},
				})
				if tab.Kind(one) != grammar.KindInt {
					t.Fatalf("unexpected kind: %v", tab.Kind(one))
				}
			},
		},
		{
			caption:  "duplicated and empty literals are ignored",
			literals: []string{"a", "", "a", ";"},
			test: func(t *testing.T, tab *LexerTable) {
				lits := tab.Literals()
				if len(lits) != 2 || lits[0] != "a" || lits[1] != ";" {
					t.Fatalf("unexpected literals: %v", lits)
				}
				if tab.StateCount() != FirstLiteralState.Int()+4 {
					t.Fatalf("unexpected state count: %v", tab.StateCount())
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			tt.test(t, Build(tt.literals))
		})
	}
}

func TestLexerTable_Transitions(t *testing.T) {
	tab := Build([]string{"+"})
	trans := tab.Transitions()
	for i := 1; i < len(trans); i++ {
		prev, cur := trans[i-1], trans[i]
		if prev.State > cur.State || (prev.State == cur.State && prev.Char >= cur.Char) {
			t.Fatalf("transitions must be ordered by state and character: %v, %v", prev, cur)
		}
	}
	if len(tab.States()) != tab.StateCount() {
		t.Fatalf("every state must be listed")
	}
}

package lexical

import (
	"github.com/michelematteini/dslmanager/grammar"
)

var genericKinds = [...]grammar.TokenKind{
	StateInitial:    grammar.KindEpsilon,
	StateName:       grammar.KindName,
	StateIdentifier: grammar.KindID,
	StateInt:        grammar.KindInt,
	StateDottedInt:  grammar.KindInvalid,
	StateReal:       grammar.KindReal,
	StateExpReal:    grammar.KindInvalid,
	StateExpNegReal: grammar.KindInvalid,
}

// Build makes the lexer table of a grammar from the literals it uses. The generic states
// classify names, identifiers, integers, reals and strings. Each literal gets a chain of
// states layered over them; a literal state keeps the transitions of the generic state it
// shadows, so input that leaves the literal falls back to the generic classification.
func Build(literals []string) *LexerTable {
	t := newLexerTable()
	for state, kind := range genericKinds {
		t.setKind(StateID(state), kind)
		t.setGenericTransitions(StateID(state), StateID(state))
	}

	b := &literalBuilder{
		table:     t,
		nextState: FirstLiteralState,
		seen:      map[string]struct{}{},
	}
	for _, lit := range literals {
		b.add(lit)
	}

	stringState := b.newState(grammar.KindInvalid)
	t.set('"', StateInitial, stringState)
	t.setDefaultNext(stringState, stringState)
	stringEndState := b.newState(grammar.KindString)
	t.set('"', stringState, stringEndState)

	tracer().Debugf("%v", t)
	return t
}

// setGenericTransitions writes onto state the outgoing transitions of the generic state base.
func (t *LexerTable) setGenericTransitions(state, base StateID) {
	switch base {
	case StateInitial:
		t.setRange(lowerCaseLetters, state, StateName)
		t.setRange(upperCaseLetters, state, StateName)
		t.setRange(digits, state, StateInt)
		t.set('_', state, StateIdentifier)
	case StateName:
		t.setRange(lowerCaseLetters, state, StateName)
		t.setRange(upperCaseLetters, state, StateName)
		t.setRange(digits, state, StateIdentifier)
		t.set('-', state, StateIdentifier)
		t.set('_', state, StateIdentifier)
	case StateIdentifier:
		t.setRange(lowerCaseLetters, state, StateIdentifier)
		t.setRange(upperCaseLetters, state, StateIdentifier)
		t.setRange(digits, state, StateIdentifier)
		t.set('-', state, StateIdentifier)
		t.set('_', state, StateIdentifier)
	case StateInt:
		t.setRange(digits, state, StateInt)
		t.set('.', state, StateDottedInt)
		t.set('e', state, StateExpReal)
	case StateDottedInt:
		t.setRange(digits, state, StateReal)
	case StateReal:
		t.setRange(digits, state, StateReal)
		t.set('e', state, StateExpReal)
	case StateExpReal:
		t.setRange(digits, state, StateReal)
		t.set('-', state, StateExpNegReal)
	case StateExpNegReal:
		t.setRange(digits, state, StateReal)
	}
}

type literalBuilder struct {
	table     *LexerTable
	nextState StateID
	seen      map[string]struct{}
}

func (b *literalBuilder) newState(kind grammar.TokenKind) StateID {
	state := b.nextState
	b.nextState++
	b.table.setKind(state, kind)
	return state
}

func (b *literalBuilder) add(lit string) {
	if lit == "" {
		return
	}
	if _, ok := b.seen[lit]; ok {
		return
	}
	b.seen[lit] = struct{}{}
	t := b.table
	t.literals = append(t.literals, lit)

	// cur walks the chain of the literal; base is where the generic automaton would be.
	cur := StateInitial
	base := StateInitial
	for _, c := range lit {
		if next, ok := t.Next(c, cur); ok && next >= FirstLiteralState {
			cur = next
			base = next
			continue
		}
		base, _ = t.Next(c, base)
		kind := t.Kind(base)
		next := b.newState(kind)
		t.set(c, cur, next)
		cur = next

		switch kind {
		case grammar.KindName:
			t.setGenericTransitions(cur, StateName)
		case grammar.KindID:
			t.setGenericTransitions(cur, StateIdentifier)
		case grammar.KindInt:
			t.setGenericTransitions(cur, StateInt)
		case grammar.KindReal:
			t.setGenericTransitions(cur, StateReal)
		case grammar.KindInvalid:
			if base == StateDottedInt || base == StateExpReal || base == StateExpNegReal {
				t.setGenericTransitions(cur, base)
			}
		}
	}
	t.setKind(cur, grammar.KindLiteral)
}

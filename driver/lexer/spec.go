package lexer

import (
	"github.com/michelematteini/dslmanager/grammar"
	"github.com/michelematteini/dslmanager/grammar/lexical"
)

type lexSpec struct {
	table *lexical.LexerTable
}

func NewLexSpec(table *lexical.LexerTable) *lexSpec {
	return &lexSpec{
		table: table,
	}
}

func (s *lexSpec) InitialState() StateID {
	return StateID(lexical.StateInitial.Int())
}

func (s *lexSpec) NextState(state StateID, c rune) (StateID, bool) {
	next, ok := s.table.Next(c, lexical.StateID(state))
	if !ok {
		return StateID(lexical.StateIDNil.Int()), false
	}
	return StateID(next.Int()), true
}

// Accept reports the kind of a state that can end a token. The initial state classifies
// nothing.
func (s *lexSpec) Accept(state StateID) (grammar.TokenKind, bool) {
	kind := s.table.Kind(lexical.StateID(state))
	if kind == grammar.KindInvalid || kind == grammar.KindEpsilon {
		return grammar.KindInvalid, false
	}
	return kind, true
}

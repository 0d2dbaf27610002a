package lexical

import (
	"fmt"
	"sort"

	"github.com/michelematteini/dslmanager/grammar"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("dslmanager.lexer")
}

type StateID int

const StateIDNil = StateID(-1)

func (id StateID) Int() int {
	return int(id)
}

// The generic classifier states. Literal states are numbered from FirstLiteralState.
const (
	StateInitial StateID = iota
	StateName
	StateIdentifier
	StateInt
	StateDottedInt
	StateReal
	StateExpReal
	StateExpNegReal

	FirstLiteralState
)

type charRange struct {
	first, last rune
}

var (
	lowerCaseLetters = charRange{'a', 'z'}
	upperCaseLetters = charRange{'A', 'Z'}
	digits           = charRange{'0', '9'}
)

type transitionKey struct {
	c     rune
	state StateID
}

type stateInfo struct {
	kind        grammar.TokenKind
	defaultNext StateID
}

// LexerTable is a sparse DFA over characters. Each state carries the kind of the token read so
// far, Invalid while the input cannot end there, and an optional default transition taken on
// characters without an explicit one.
type LexerTable struct {
	trans    map[transitionKey]StateID
	states   []stateInfo
	literals []string
}

func newLexerTable() *LexerTable {
	return &LexerTable{
		trans: map[transitionKey]StateID{},
	}
}

func (t *LexerTable) info(state StateID) *stateInfo {
	for len(t.states) <= state.Int() {
		t.states = append(t.states, stateInfo{
			kind:        grammar.KindInvalid,
			defaultNext: StateIDNil,
		})
	}
	return &t.states[state]
}

func (t *LexerTable) set(c rune, state, next StateID) {
	t.trans[transitionKey{c: c, state: state}] = next
}

func (t *LexerTable) setRange(r charRange, state, next StateID) {
	for c := r.first; c <= r.last; c++ {
		t.set(c, state, next)
	}
}

func (t *LexerTable) setKind(state StateID, kind grammar.TokenKind) {
	t.info(state).kind = kind
}

func (t *LexerTable) setDefaultNext(state, next StateID) {
	t.info(state).defaultNext = next
}

// Next returns the state reached from a state on a character. When no explicit transition
// exists the default transition of the state is taken; without one, the character is not
// accepted.
func (t *LexerTable) Next(c rune, state StateID) (StateID, bool) {
	if next, ok := t.trans[transitionKey{c: c, state: state}]; ok {
		return next, true
	}
	if state < 0 || state.Int() >= len(t.states) {
		return StateIDNil, false
	}
	next := t.states[state].defaultNext
	return next, next != StateIDNil
}

// Kind returns the kind of the token read when the automaton stops in a state.
func (t *LexerTable) Kind(state StateID) grammar.TokenKind {
	if state < 0 || state.Int() >= len(t.states) {
		return grammar.KindInvalid
	}
	return t.states[state].kind
}

func (t *LexerTable) StateCount() int {
	return len(t.states)
}

// Literals returns the literals the table recognizes, in the order they were added.
func (t *LexerTable) Literals() []string {
	return t.literals
}

// Transition is one explicit transition of the table in exportable form.
type Transition struct {
	State int    `json:"state"`
	Char  string `json:"char"`
	Next  int    `json:"next"`
}

// StateEntry describes a state of the table in exportable form.
type StateEntry struct {
	State       int    `json:"state"`
	Kind        string `json:"kind"`
	DefaultNext int    `json:"default_next"`
}

func (t *LexerTable) States() []StateEntry {
	entries := make([]StateEntry, len(t.states))
	for i, st := range t.states {
		entries[i] = StateEntry{
			State:       i,
			Kind:        st.kind.String(),
			DefaultNext: st.defaultNext.Int(),
		}
	}
	return entries
}

// Transitions lists the explicit transitions ordered by state and then by character.
func (t *LexerTable) Transitions() []Transition {
	byState := make([][]rune, len(t.states))
	for k := range t.trans {
		byState[k.state] = append(byState[k.state], k.c)
	}
	var trans []Transition
	for state, cs := range byState {
		sort.Slice(cs, func(i, j int) bool {
			return cs[i] < cs[j]
		})
		for _, c := range cs {
			trans = append(trans, Transition{
				State: state,
				Char:  string(c),
				Next:  t.trans[transitionKey{c: c, state: StateID(state)}].Int(),
			})
		}
	}
	return trans
}

func (t *LexerTable) String() string {
	return fmt.Sprintf("lexer table: %v states, %v literals", len(t.states), len(t.literals))
}

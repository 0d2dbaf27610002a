package driver

import (
	"fmt"

	"github.com/michelematteini/dslmanager/grammar"
)

// SymbolMap binds the symbols of a reduced rule to their names. Each name holds its
// instances in source order, left to right, including the instances that reached the rule
// through optional, repeated or grouped parts of its body.
type SymbolMap[T any] struct {
	names  []string
	values map[string][]T
}

func newSymbolMap[T any]() *SymbolMap[T] {
	return &SymbolMap[T]{
		values: map[string][]T{},
	}
}

func (m *SymbolMap[T]) push(name string, v T) {
	if _, ok := m.values[name]; !ok {
		m.names = append(m.names, name)
	}
	m.values[name] = append(m.values[name], v)
}

// Lookup returns the idx-th instance bound to a name.
func (m *SymbolMap[T]) Lookup(name string, idx int) (T, bool) {
	vs := m.values[name]
	if idx < 0 || idx >= len(vs) {
		var zero T
		return zero, false
	}
	return vs[idx], true
}

// Get returns the idx-th instance bound to a name, or the zero value when there is none.
func (m *SymbolMap[T]) Get(name string, idx int) T {
	v, _ := m.Lookup(name, idx)
	return v
}

// Value returns the first instance of the only name of the map. It fails when the map binds
// more or less than one name.
func (m *SymbolMap[T]) Value() (T, error) {
	if len(m.names) != 1 {
		var zero T
		return zero, fmt.Errorf("a single value needs exactly one bound name; names: %v", m.names)
	}
	return m.values[m.names[0]][0], nil
}

// Count returns the number of instances bound to a name.
func (m *SymbolMap[T]) Count(name string) int {
	return len(m.values[name])
}

func (m *SymbolMap[T]) Contains(name string) bool {
	_, ok := m.values[name]
	return ok
}

// List returns every instance bound to a name in source order.
func (m *SymbolMap[T]) List(name string) []T {
	return m.values[name]
}

// Len returns the number of distinct names.
func (m *SymbolMap[T]) Len() int {
	return len(m.names)
}

// Names returns the bound names in the order they first appear.
func (m *SymbolMap[T]) Names() []string {
	return m.names
}

// Symbol is a token or a translated value bound for a semantic action. Value holds a
// grammar.Token for tokens.
type Symbol struct {
	Name  string
	Value interface{}
	Line  int
}

func (s Symbol) Token() (grammar.Token, bool) {
	tok, ok := s.Value.(grammar.Token)
	return tok, ok
}

// Args is the input of a semantic action.
type Args struct {
	// Values binds the results of the authored rules reduced inside the rule, by the name of
	// their left-hand symbol.
	Values *SymbolMap[interface{}]

	// Tokens binds the tokens of the rule. A literal is bound by its text and any other
	// token by its class, e.g. `#int`.
	Tokens *SymbolMap[grammar.Token]

	// Symbols lists the tokens and values of Tokens and Values interleaved in source order.
	Symbols []Symbol

	// ParsedCode is the source text of the rule, its tokens separated by a space.
	ParsedCode string

	// Line is the 1-based line where the text of the rule begins.
	Line int
}

func newArgs() *Args {
	return &Args{
		Values: newSymbolMap[interface{}](),
		Tokens: newSymbolMap[grammar.Token](),
	}
}

// Translator is the semantic action of an authored rule.
type Translator func(args *Args) (interface{}, error)

// Translators assigns semantic actions to authored rules.
type Translators map[grammar.RuleRef]Translator

// Set assigns fn to every alternative of an authored rule.
func (ts Translators) Set(rule int, fn Translator) {
	ts[grammar.RuleRef{Rule: rule, Alternative: grammar.AnyAlternative}] = fn
}

// SetAlternative assigns fn to one top-level alternative of an authored rule.
func (ts Translators) SetAlternative(rule, alt int, fn Translator) {
	ts[grammar.RuleRef{Rule: rule, Alternative: alt}] = fn
}

// Lookup returns the action of an alternative, falling back to the action of the rule.
func (ts Translators) Lookup(ref grammar.RuleRef) (Translator, bool) {
	if fn, ok := ts[ref]; ok {
		return fn, true
	}
	fn, ok := ts[grammar.RuleRef{Rule: ref.Rule, Alternative: grammar.AnyAlternative}]
	return fn, ok
}

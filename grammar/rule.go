package grammar

import (
	"fmt"
	"strings"
)

// DerivationRule is `LHS ::= Body;`. The order of rules in a grammar is significant: the
// index of a rule keys its semantic action and the first rule defines the start symbol.
type DerivationRule struct {
	LHS  *Variable
	Body Expression

	// Alternative is the index of the top-level alternative of the authored rule this rule
	// was derived from. It is 0 for authored rules and for rules without alternatives.
	Alternative int

	key Key
}

func NewRule(lhs *Variable, body Expression) *DerivationRule {
	return &DerivationRule{
		LHS:  lhs,
		Body: body,
		key:  hashNode(tagRule, 0, "", false, lhs.Key(), body.Key()),
	}
}

// NewSequenceRule builds a BNF rule from a flat symbol sequence. An empty sequence yields
// an epsilon rule.
func NewSequenceRule(lhs *Variable, symbols []Expression) *DerivationRule {
	if len(symbols) == 0 {
		return NewRule(lhs, Epsilon)
	}
	return NewRule(lhs, NewConcatenation(symbols...))
}

func (r *DerivationRule) withAlternative(alt int) *DerivationRule {
	r.Alternative = alt
	return r
}

func (r *DerivationRule) Key() Key {
	return r.key
}

func (r *DerivationRule) Equal(o *DerivationRule) bool {
	return r.key == o.key
}

func (r *DerivationRule) String() string {
	return fmt.Sprintf("%v ::= %v;", r.LHS, r.Body)
}

// Symbols returns the body of a BNF rule as a flat sequence of tokens and variables. An
// epsilon body yields an empty sequence.
func (r *DerivationRule) Symbols() []Expression {
	switch b := r.Body.(type) {
	case *Concatenation:
		syms := make([]Expression, 0, len(b.Children))
		for _, c := range b.Children {
			if tok, ok := c.(Token); ok && tok.IsEpsilon() {
				continue
			}
			syms = append(syms, c)
		}
		return syms
	case Token:
		if b.IsEpsilon() {
			return nil
		}
		return []Expression{b}
	}
	return []Expression{r.Body}
}

// IsEpsilon reports whether the rule derives the empty string directly.
func (r *DerivationRule) IsEpsilon() bool {
	tok, ok := r.Body.(Token)
	return ok && tok.IsEpsilon()
}

// IsBNF reports whether the body is a flat sequence of symbols.
func (r *DerivationRule) IsBNF() bool {
	if cat, ok := r.Body.(*Concatenation); ok {
		for _, c := range cat.Children {
			if !IsSymbol(c) {
				return false
			}
		}
		return true
	}
	return IsSymbol(r.Body)
}

// FormatRules renders one rule per line.
func FormatRules(rules []*DerivationRule) string {
	var b strings.Builder
	for _, r := range rules {
		fmt.Fprintf(&b, "%v\n", r)
	}
	return b.String()
}

// Grammar indexes a rule list by left-hand symbol.
type Grammar struct {
	rules []*DerivationRule
	byLHS map[Key][]int
	order []*Variable
}

func NewGrammar(rules []*DerivationRule) *Grammar {
	g := &Grammar{
		rules: rules,
		byLHS: map[Key][]int{},
	}
	for i, r := range rules {
		k := r.LHS.Key()
		if _, ok := g.byLHS[k]; !ok {
			g.order = append(g.order, r.LHS)
		}
		g.byLHS[k] = append(g.byLHS[k], i)
	}
	return g
}

func (g *Grammar) Rules() []*DerivationRule {
	return g.rules
}

func (g *Grammar) Rule(i int) *DerivationRule {
	return g.rules[i]
}

func (g *Grammar) Len() int {
	return len(g.rules)
}

// RulesOf returns the indices of the rules whose left-hand symbol is v.
func (g *Grammar) RulesOf(v *Variable) []int {
	return g.byLHS[v.Key()]
}

func (g *Grammar) Defines(v *Variable) bool {
	_, ok := g.byLHS[v.Key()]
	return ok
}

// Variables returns the left-hand symbols in order of first definition.
func (g *Grammar) Variables() []*Variable {
	return g.order
}

// Start returns the left-hand symbol of the first rule.
func (g *Grammar) Start() (*Variable, bool) {
	if len(g.rules) == 0 {
		return nil, false
	}
	return g.rules[0].LHS, true
}

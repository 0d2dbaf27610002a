package grammar

import (
	"strings"
)

// Expression is a node of a grammar rule body. Expressions are immutable; rewriting a
// grammar always builds new nodes and shares the unchanged ones.
//
// The variants are Token, *Variable, *Alternation, *Concatenation, *Group, *Optional
// and *Repetition.
type Expression interface {
	Key() Key

	// String returns the canonical rendering of the expression.
	String() string

	isExpression()
}

var (
	_ Expression = Token{}
	_ Expression = &Variable{}
	_ Expression = &Alternation{}
	_ Expression = &Concatenation{}
	_ Expression = &Group{}
	_ Expression = &Optional{}
	_ Expression = &Repetition{}
)

// Equal reports whether two expressions denote the same grammar symbol or tree.
func Equal(a, b Expression) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Key() == b.Key()
}

type Variable struct {
	Name string

	// Synthetic is true for variables the normalization introduced. It is not part of
	// the identity of a variable.
	Synthetic bool

	key Key
}

func NewVariable(name string) *Variable {
	return &Variable{
		Name: name,
		key:  hashNode(tagVariable, 0, name, false),
	}
}

func newSyntheticVariable(name string) *Variable {
	v := NewVariable(name)
	v.Synthetic = true
	return v
}

func (v *Variable) Key() Key {
	return v.key
}

func (v *Variable) String() string {
	return v.Name
}

func (v *Variable) isExpression() {}

type Alternation struct {
	Children []Expression
	key      Key
}

// NewAlternation builds `a | b | ...`. Nested alternations are flattened and a single
// alternative is returned as it is.
func NewAlternation(children ...Expression) Expression {
	var flat []Expression
	for _, c := range children {
		if alt, ok := c.(*Alternation); ok {
			flat = append(flat, alt.Children...)
			continue
		}
		flat = append(flat, c)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Alternation{
		Children: flat,
		key:      hashNode(tagAlternation, 0, "", false, keysOf(flat)...),
	}
}

func (a *Alternation) Key() Key {
	return a.key
}

func (a *Alternation) String() string {
	return joinExpressions(a.Children, " | ")
}

func (a *Alternation) isExpression() {}

type Concatenation struct {
	Children []Expression
	key      Key
}

// NewConcatenation builds `a , b , ...`. Nested concatenations are flattened and a single
// element is returned as it is. An alternation element is wrapped in a group because
// concatenation binds tighter than alternation.
func NewConcatenation(children ...Expression) Expression {
	var flat []Expression
	for _, c := range children {
		switch n := c.(type) {
		case *Concatenation:
			flat = append(flat, n.Children...)
		case *Alternation:
			if len(children) > 1 {
				flat = append(flat, NewGroup(n))
			} else {
				flat = append(flat, n)
			}
		default:
			flat = append(flat, c)
		}
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return &Concatenation{
		Children: flat,
		key:      hashNode(tagConcatenation, 0, "", false, keysOf(flat)...),
	}
}

func (c *Concatenation) Key() Key {
	return c.key
}

func (c *Concatenation) String() string {
	return joinExpressions(c.Children, " , ")
}

func (c *Concatenation) isExpression() {}

type Group struct {
	Child Expression
	key   Key
}

func NewGroup(child Expression) *Group {
	return &Group{
		Child: child,
		key:   hashNode(tagGroup, 0, "", false, child.Key()),
	}
}

func (g *Group) Key() Key {
	return g.key
}

func (g *Group) String() string {
	return "( " + g.Child.String() + " )"
}

func (g *Group) isExpression() {}

type Optional struct {
	Child Expression
	key   Key
}

func NewOptional(child Expression) *Optional {
	return &Optional{
		Child: child,
		key:   hashNode(tagOptional, 0, "", false, child.Key()),
	}
}

func (o *Optional) Key() Key {
	return o.key
}

func (o *Optional) String() string {
	return "[ " + o.Child.String() + " ]"
}

func (o *Optional) isExpression() {}

type Repetition struct {
	Child Expression

	// AllowZero distinguishes `{ e }*` from `{ e }+`.
	AllowZero bool

	key Key
}

func NewRepetition(child Expression, allowZero bool) *Repetition {
	return &Repetition{
		Child:     child,
		AllowZero: allowZero,
		key:       hashNode(tagRepetition, 0, "", allowZero, child.Key()),
	}
}

func (r *Repetition) Key() Key {
	return r.key
}

func (r *Repetition) String() string {
	if r.AllowZero {
		return "{ " + r.Child.String() + " }*"
	}
	return "{ " + r.Child.String() + " }+"
}

func (r *Repetition) isExpression() {}

func joinExpressions(exprs []Expression, sep string) string {
	var b strings.Builder
	for i, e := range exprs {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(e.String())
	}
	return b.String()
}

// IsSymbol reports whether e is a single grammar symbol, that is a token or a variable.
func IsSymbol(e Expression) bool {
	switch e.(type) {
	case Token, *Variable:
		return true
	}
	return false
}

// Walk calls fn for e and all of its descendants in depth-first order.
func Walk(e Expression, fn func(Expression)) {
	fn(e)
	switch n := e.(type) {
	case *Alternation:
		for _, c := range n.Children {
			Walk(c, fn)
		}
	case *Concatenation:
		for _, c := range n.Children {
			Walk(c, fn)
		}
	case *Group:
		Walk(n.Child, fn)
	case *Optional:
		Walk(n.Child, fn)
	case *Repetition:
		Walk(n.Child, fn)
	}
}

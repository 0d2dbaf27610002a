package grammar

import (
	"strconv"
)

// Synthetic marks a rule in a provenance index that has no authored counterpart.
const Synthetic = -1

const syntheticVariablePrefix = "VAR"

// nameGenerator hands out names for synthetic variables that collide with no variable of
// the grammar being rewritten.
type nameGenerator struct {
	next  int
	taken map[string]struct{}
}

func newNameGenerator(rules []*DerivationRule) *nameGenerator {
	taken := map[string]struct{}{}
	for _, r := range rules {
		taken[r.LHS.Name] = struct{}{}
		Walk(r.Body, func(e Expression) {
			if v, ok := e.(*Variable); ok {
				taken[v.Name] = struct{}{}
			}
		})
	}
	return &nameGenerator{
		next:  1,
		taken: taken,
	}
}

func (g *nameGenerator) generate() *Variable {
	for {
		name := syntheticVariablePrefix + strconv.Itoa(g.next)
		g.next++
		if _, ok := g.taken[name]; ok {
			continue
		}
		g.taken[name] = struct{}{}
		return newSyntheticVariable(name)
	}
}

type bnfConverter struct {
	names *nameGenerator
	out   []*DerivationRule
	prov  []int
}

// ToBNF rewrites EBNF rules into BNF rules whose bodies are flat symbol sequences.
//
// A top-level alternation of an authored rule becomes one rule per alternative, each
// remembering its alternative index. Every other composite node is replaced by a fresh
// synthetic variable:
//
//	( e )    V ::= e;
//	a | b    V ::= a;  V ::= b;
//	[ e ]    V ::= e;  V ::= #e;
//	{ e }+   V ::= e;  V ::= e , V;
//	{ e }*   V ::= e;  V ::= e , V;  V ::= #e;
//
// Concatenations are flattened into the sequence of their parent. The returned index maps
// each output rule to its input rule, or to Synthetic.
func ToBNF(rules []*DerivationRule) ([]*DerivationRule, []int) {
	c := &bnfConverter{
		names: newNameGenerator(rules),
	}
	for i, r := range rules {
		alts := []Expression{r.Body}
		if alt, ok := r.Body.(*Alternation); ok {
			alts = alt.Children
		}
		// Synthetic rules are emitted after the rules of their authored rule so that the
		// first rule keeps defining the start symbol.
		var synth []*DerivationRule
		for k, alt := range alts {
			before := len(c.out)
			seq := c.sequence(alt)
			synth = append(synth, c.takeSynthetic(before)...)
			c.out = append(c.out, NewSequenceRule(r.LHS, seq).withAlternative(k))
			c.prov = append(c.prov, i)
		}
		c.out = append(c.out, synth...)
		for range synth {
			c.prov = append(c.prov, Synthetic)
		}
	}
	return c.out, c.prov
}

// takeSynthetic removes the synthetic rules emitted from position `from` on and returns them.
func (c *bnfConverter) takeSynthetic(from int) []*DerivationRule {
	if len(c.out) <= from {
		return nil
	}
	taken := append([]*DerivationRule{}, c.out[from:]...)
	c.out = c.out[:from]
	c.prov = c.prov[:from]
	return taken
}

// sequence returns the flat symbol sequence of e, introducing synthetic variables for its
// composite parts.
func (c *bnfConverter) sequence(e Expression) []Expression {
	switch n := e.(type) {
	case Token:
		if n.IsEpsilon() {
			return nil
		}
		return []Expression{n}
	case *Variable:
		return []Expression{n}
	case *Concatenation:
		var seq []Expression
		for _, child := range n.Children {
			seq = append(seq, c.sequence(child)...)
		}
		return seq
	}
	return []Expression{c.desugar(e)}
}

func (c *bnfConverter) desugar(e Expression) *Variable {
	switch n := e.(type) {
	case *Alternation:
		seqs := make([][]Expression, len(n.Children))
		for i, child := range n.Children {
			seqs[i] = c.sequence(child)
		}
		v := c.names.generate()
		for _, seq := range seqs {
			c.emit(NewSequenceRule(v, seq))
		}
		return v
	case *Group:
		seq := c.sequence(n.Child)
		v := c.names.generate()
		c.emit(NewSequenceRule(v, seq))
		return v
	case *Optional:
		seq := c.sequence(n.Child)
		v := c.names.generate()
		c.emit(NewSequenceRule(v, seq))
		c.emit(NewRule(v, Epsilon))
		return v
	case *Repetition:
		seq := c.sequence(n.Child)
		v := c.names.generate()
		c.emit(NewSequenceRule(v, seq))
		rec := make([]Expression, 0, len(seq)+1)
		rec = append(rec, seq...)
		rec = append(rec, v)
		c.emit(NewSequenceRule(v, rec))
		if n.AllowZero {
			c.emit(NewRule(v, Epsilon))
		}
		return v
	}
	// A concatenation nested directly in another node without brackets.
	seq := c.sequence(e)
	v := c.names.generate()
	c.emit(NewSequenceRule(v, seq))
	return v
}

func (c *bnfConverter) emit(r *DerivationRule) {
	c.out = append(c.out, r)
	c.prov = append(c.prov, Synthetic)
}

package grammar

import (
	"fmt"
	"strings"

	verr "github.com/michelematteini/dslmanager/error"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("dslmanager.grammar")
}

// Filter is one stage of the normalization. It returns the rewritten rules together with a
// provenance index mapping every output rule to an input rule or to Synthetic.
type Filter func(rules []*DerivationRule) ([]*DerivationRule, []int)

type stage struct {
	name   string
	filter Filter
}

var stages = []stage{
	{"bnf", ToBNF},
	{"epsilon", EliminateEpsilon},
	{"unit", EliminateUnitRules},
	{"token", EliminateTokenRules},
	{"start", AugmentStart},
	{"generative", FilterGenerative},
	{"reachable", FilterReachable},
}

// ComposeProvenance maps the provenance `next` of a later stage through the provenance
// `prev` of the stage before it.
func ComposeProvenance(prev, next []int) []int {
	composed := make([]int, len(next))
	for i, p := range next {
		if p < 0 {
			composed[i] = p
			continue
		}
		composed[i] = prev[p]
	}
	return composed
}

// Normalized is a grammar ready for table construction. Rule 0 is `START ::= S;`.
type Normalized struct {
	// Source holds the authored rules.
	Source []*DerivationRule

	Rules []*DerivationRule

	// Provenance maps each normalized rule to the index of its authored rule, or to Synthetic.
	Provenance []int
}

// Normalize runs every normalization stage over the authored rules.
func Normalize(src []*DerivationRule) (*Normalized, error) {
	if len(src) == 0 {
		return nil, verr.NewCompileError(verr.CodeEBNFEmptyGrammar, verr.NoLine, "the grammar has no rules")
	}
	for _, r := range src {
		if r.LHS.Name == StartName {
			return nil, verr.NewCompileError(verr.CodeNormalization, verr.NoLine, "%v is reserved for the augmented start symbol", StartName)
		}
	}

	rules := src
	prov := identityProvenance(len(src))
	for _, s := range stages {
		var p []int
		rules, p = s.filter(rules)
		prov = ComposeProvenance(prov, p)
		tracer().Debugf("normalization stage %v: %v rules", s.name, len(rules))
	}

	// Pruning can leave a synthetic variable with a single rule again.
	for {
		changed := false
		for _, f := range []Filter{EliminateUnitRules, EliminateTokenRules} {
			next, p := f(rules)
			if len(next) != len(rules) || !sameRules(next, rules) {
				changed = true
			}
			rules, prov = next, ComposeProvenance(prov, p)
		}
		if !changed {
			break
		}
		for _, f := range []Filter{FilterGenerative, FilterReachable} {
			var p []int
			rules, p = f(rules)
			prov = ComposeProvenance(prov, p)
		}
	}

	if len(rules) == 0 || rules[0].LHS.Name != StartName {
		return nil, verr.NewCompileError(verr.CodeNormalization, verr.NoLine, "the start symbol %v derives no sentence", src[0].LHS)
	}
	tracer().Infof("normalized %v authored rules into %v rules", len(src), len(rules))

	return &Normalized{
		Source:     src,
		Rules:      rules,
		Provenance: prov,
	}, nil
}

func sameRules(a, b []*DerivationRule) bool {
	for i := range a {
		if a[i].Key() != b[i].Key() {
			return false
		}
	}
	return true
}

// IsSynthetic reports whether normalized rule i has no authored counterpart.
func (n *Normalized) IsSynthetic(i int) bool {
	return n.Provenance[i] < 0
}

// Origin returns the authored rule and alternative normalized rule i derives from.
func (n *Normalized) Origin(i int) (RuleRef, bool) {
	p := n.Provenance[i]
	if p < 0 {
		return RuleRef{}, false
	}
	return RuleRef{
		Rule:        p,
		Alternative: n.Rules[i].Alternative,
	}, true
}

// Priorities resolves the priority of every normalized rule. Synthetic rules get Default.
func (n *Normalized) Priorities(m PriorityMap) []RulePriority {
	prios := make([]RulePriority, len(n.Rules))
	for i := range n.Rules {
		ref, ok := n.Origin(i)
		if !ok {
			prios[i] = Default
			continue
		}
		prios[i] = m.Lookup(ref.Rule, ref.Alternative)
	}
	return prios
}

// Literals returns the distinct literal terminals of the normalized grammar in order of
// appearance.
func (n *Normalized) Literals() []string {
	var lits []string
	seen := map[string]struct{}{}
	for _, r := range n.Rules {
		for _, sym := range r.Symbols() {
			tok, ok := sym.(Token)
			if !ok || tok.Kind != KindLiteral {
				continue
			}
			if _, ok := seen[tok.Text]; ok {
				continue
			}
			seen[tok.Text] = struct{}{}
			lits = append(lits, tok.Text)
		}
	}
	return lits
}

// Describe renders the normalized rules with their provenance.
func (n *Normalized) Describe() string {
	var b strings.Builder
	for i, r := range n.Rules {
		origin := "synthetic"
		if ref, ok := n.Origin(i); ok {
			origin = fmt.Sprintf("rule %v, alternative %v", ref.Rule, ref.Alternative)
		}
		fmt.Fprintf(&b, "%4v %v  (%v)\n", i, r, origin)
	}
	return b.String()
}

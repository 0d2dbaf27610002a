package grammar

// StartName is the name of the augmented start symbol.
const StartName = "START"

// StartSymbol returns the augmented start symbol.
func StartSymbol() *Variable {
	return newSyntheticVariable(StartName)
}

// AugmentStart prepends `START ::= S;` where S is the left-hand symbol of the first rule.
func AugmentStart(rules []*DerivationRule) ([]*DerivationRule, []int) {
	if len(rules) == 0 {
		return nil, nil
	}
	out := make([]*DerivationRule, 0, len(rules)+1)
	prov := make([]int, 0, len(rules)+1)
	out = append(out, NewRule(StartSymbol(), rules[0].LHS))
	prov = append(prov, Synthetic)
	for i, r := range rules {
		out = append(out, r)
		prov = append(prov, i)
	}
	return out, prov
}

// FilterGenerative drops rules that cannot derive a string of terminals. Terminals are
// generative, and a variable is generative when one of its rules consists of generative
// symbols only.
func FilterGenerative(rules []*DerivationRule) ([]*DerivationRule, []int) {
	generative := map[Key]struct{}{}
	isGenerative := func(sym Expression) bool {
		if _, ok := sym.(Token); ok {
			return true
		}
		_, ok := generative[sym.Key()]
		return ok
	}
	allGenerative := func(r *DerivationRule) bool {
		for _, sym := range r.Symbols() {
			if !isGenerative(sym) {
				return false
			}
		}
		return true
	}

	for {
		more := false
		for _, r := range rules {
			if isGenerative(r.LHS) {
				continue
			}
			if allGenerative(r) {
				generative[r.LHS.Key()] = struct{}{}
				more = true
			}
		}
		if !more {
			break
		}
	}

	var out []*DerivationRule
	var prov []int
	for i, r := range rules {
		if !isGenerative(r.LHS) || !allGenerative(r) {
			continue
		}
		out = append(out, r)
		prov = append(prov, i)
	}
	return out, prov
}

// FilterReachable drops rules whose left-hand symbol cannot be reached from the start
// symbol. The start symbol is START when the grammar defines it, otherwise the left-hand
// symbol of the first rule.
func FilterReachable(rules []*DerivationRule) ([]*DerivationRule, []int) {
	if len(rules) == 0 {
		return nil, nil
	}
	g := NewGrammar(rules)
	start := rules[0].LHS
	if s := StartSymbol(); g.Defines(s) {
		start = s
	}

	reachable := map[Key]struct{}{
		start.Key(): {},
	}
	queue := []*Variable{start}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, i := range g.RulesOf(v) {
			for _, sym := range rules[i].Symbols() {
				w, ok := sym.(*Variable)
				if !ok {
					continue
				}
				if _, ok := reachable[w.Key()]; ok {
					continue
				}
				reachable[w.Key()] = struct{}{}
				queue = append(queue, w)
			}
		}
	}

	var out []*DerivationRule
	var prov []int
	for i, r := range rules {
		if _, ok := reachable[r.LHS.Key()]; !ok {
			continue
		}
		out = append(out, r)
		prov = append(prov, i)
	}
	return out, prov
}

package grammar

func countDefinitions(rules []*DerivationRule) map[Key]int {
	n := map[Key]int{}
	for _, r := range rules {
		n[r.LHS.Key()]++
	}
	return n
}

// EliminateUnitRules inlines synthetic variables used as the whole body of a rule. A rule
// `A ::= B;` whose left-hand symbol has no other rule and whose body is a synthetic variable
// B is replaced by `A ::= β;` for every rule `B ::= β;`. The replacements take the place
// and the provenance of the unit rule. Unit rules between authored variables are kept.
func EliminateUnitRules(rules []*DerivationRule) ([]*DerivationRule, []int) {
	cur := rules
	prov := identityProvenance(len(rules))
	for {
		target := findUnitRule(cur)
		if target < 0 {
			break
		}
		unit := cur[target]
		b := unit.Body.(*Variable)

		var next []*DerivationRule
		var nextProv []int
		seen := map[Key]struct{}{}
		for i, r := range cur {
			if i != target {
				next = append(next, r)
				nextProv = append(nextProv, prov[i])
				seen[r.Key()] = struct{}{}
				continue
			}
			for _, br := range cur {
				if br.LHS.Key() != b.Key() {
					continue
				}
				nr := NewRule(unit.LHS, br.Body).withAlternative(unit.Alternative)
				if _, ok := seen[nr.Key()]; ok {
					continue
				}
				seen[nr.Key()] = struct{}{}
				next = append(next, nr)
				nextProv = append(nextProv, prov[i])
			}
		}
		cur, prov = next, nextProv
	}
	return cur, prov
}

func findUnitRule(rules []*DerivationRule) int {
	defs := countDefinitions(rules)
	for i, r := range rules {
		b, ok := r.Body.(*Variable)
		if !ok || !b.Synthetic || b.Key() == r.LHS.Key() {
			continue
		}
		if defs[r.LHS.Key()] != 1 || defs[b.Key()] == 0 {
			continue
		}
		return i
	}
	return -1
}

// EliminateTokenRules substitutes synthetic variables that stand for a single token. A rule
// `V ::= t;` that is the only rule of a synthetic variable V is removed and every occurrence
// of V is replaced by t.
func EliminateTokenRules(rules []*DerivationRule) ([]*DerivationRule, []int) {
	cur := rules
	prov := identityProvenance(len(rules))
	for {
		target := findTokenRule(cur)
		if target < 0 {
			break
		}
		v := cur[target].LHS
		tok := cur[target].Body.(Token)

		var next []*DerivationRule
		var nextProv []int
		for i, r := range cur {
			if i == target {
				continue
			}
			next = append(next, substitute(r, v, tok))
			nextProv = append(nextProv, prov[i])
		}
		cur, prov = next, nextProv
	}
	return cur, prov
}

func findTokenRule(rules []*DerivationRule) int {
	defs := countDefinitions(rules)
	for i, r := range rules {
		if !r.LHS.Synthetic || defs[r.LHS.Key()] != 1 {
			continue
		}
		tok, ok := r.Body.(Token)
		if !ok || tok.IsEpsilon() {
			continue
		}
		return i
	}
	return -1
}

func substitute(r *DerivationRule, v *Variable, tok Token) *DerivationRule {
	syms := r.Symbols()
	changed := false
	for i, sym := range syms {
		if sym.Key() == v.Key() {
			syms[i] = tok
			changed = true
		}
	}
	if !changed {
		return r
	}
	return NewSequenceRule(r.LHS, syms).withAlternative(r.Alternative)
}

func identityProvenance(n int) []int {
	prov := make([]int, n)
	for i := range prov {
		prov[i] = i
	}
	return prov
}

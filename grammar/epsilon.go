package grammar

// nullableVariables returns the variables with an epsilon rule, plus those with a unit
// rule to a variable already known to be nullable.
func nullableVariables(rules []*DerivationRule) map[Key]struct{} {
	nullable := map[Key]struct{}{}
	for _, r := range rules {
		if r.IsEpsilon() {
			nullable[r.LHS.Key()] = struct{}{}
		}
	}
	for {
		more := false
		for _, r := range rules {
			if _, ok := nullable[r.LHS.Key()]; ok {
				continue
			}
			v, ok := r.Body.(*Variable)
			if !ok {
				continue
			}
			if _, ok := nullable[v.Key()]; ok {
				nullable[r.LHS.Key()] = struct{}{}
				more = true
			}
		}
		if !more {
			break
		}
	}
	return nullable
}

// EliminateEpsilon removes epsilon rules from a BNF grammar. Each remaining rule is expanded
// into one rule per combination of keeping or omitting the nullable variables of its body;
// combinations that would leave the body empty are dropped.
//
// A body made of several nullable variables does not make its left-hand symbol nullable,
// only a unit rule does. Such a symbol loses its empty derivation.
func EliminateEpsilon(rules []*DerivationRule) ([]*DerivationRule, []int) {
	nullable := nullableVariables(rules)

	var out []*DerivationRule
	var prov []int
	seen := map[Key]struct{}{}
	for i, r := range rules {
		if r.IsEpsilon() {
			continue
		}
		syms := r.Symbols()
		var pos []int
		for j, sym := range syms {
			if _, ok := nullable[sym.Key()]; ok {
				if _, isVar := sym.(*Variable); isVar {
					pos = append(pos, j)
				}
			}
		}
		for mask := 0; mask < 1<<len(pos); mask++ {
			omit := map[int]struct{}{}
			for b, j := range pos {
				if mask&(1<<b) != 0 {
					omit[j] = struct{}{}
				}
			}
			seq := make([]Expression, 0, len(syms))
			for j, sym := range syms {
				if _, ok := omit[j]; ok {
					continue
				}
				seq = append(seq, sym)
			}
			if len(seq) == 0 {
				continue
			}
			nr := NewSequenceRule(r.LHS, seq).withAlternative(r.Alternative)
			if _, ok := seen[nr.Key()]; ok {
				continue
			}
			seen[nr.Key()] = struct{}{}
			out = append(out, nr)
			prov = append(prov, i)
		}
	}
	return out, prov
}

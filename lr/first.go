package lr

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// symbolSet is an ordered set of symbols. Iteration follows symbol numbers.
type symbolSet struct {
	set *treeset.Set
}

func newSymbolSet(syms ...symbol) *symbolSet {
	s := &symbolSet{
		set: treeset.NewWith(utils.IntComparator),
	}
	for _, sym := range syms {
		s.add(sym)
	}
	return s
}

func (s *symbolSet) add(sym symbol) bool {
	if s.set.Contains(sym.Int()) {
		return false
	}
	s.set.Add(sym.Int())
	return true
}

func (s *symbolSet) merge(target *symbolSet) bool {
	if target == nil {
		return false
	}
	changed := false
	for _, sym := range target.symbols() {
		if s.add(sym) {
			changed = true
		}
	}
	return changed
}

func (s *symbolSet) contains(sym symbol) bool {
	return s.set.Contains(sym.Int())
}

func (s *symbolSet) size() int {
	return s.set.Size()
}

func (s *symbolSet) symbols() []symbol {
	vals := s.set.Values()
	syms := make([]symbol, len(vals))
	for i, v := range vals {
		syms[i] = symbol(v.(int))
	}
	return syms
}

func (s *symbolSet) ints() []int {
	vals := s.set.Values()
	ns := make([]int, len(vals))
	for i, v := range vals {
		ns[i] = v.(int)
	}
	return ns
}

type firstEntry struct {
	symbols *symbolSet
	empty   bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{
		symbols: newSymbolSet(),
		empty:   false,
	}
}

func (e *firstEntry) add(sym symbol) bool {
	return e.symbols.add(sym)
}

func (e *firstEntry) addEmpty() bool {
	if !e.empty {
		e.empty = true
		return true
	}
	return false
}

func (e *firstEntry) mergeExceptEmpty(target *firstEntry) bool {
	if target == nil {
		return false
	}
	return e.symbols.merge(target.symbols)
}

type firstSet struct {
	set  map[symbol]*firstEntry
	syms *symbolTable
}

func newFirstSet(prods *productionSet, syms *symbolTable) *firstSet {
	fst := &firstSet{
		set:  map[symbol]*firstEntry{},
		syms: syms,
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := fst.set[prod.lhs]; ok {
			continue
		}
		fst.set[prod.lhs] = newFirstEntry()
	}
	return fst
}

// find returns FIRST of the symbol sequence following position head of a production.
func (fst *firstSet) find(prod *production, head int) (*firstEntry, error) {
	return fst.findOfSequence(prod.rhs[minInt(head, len(prod.rhs)):], nil)
}

// findOfSequence returns FIRST(seq · follow). When seq can derive the empty string, follow is
// merged in; the empty mark is kept only if follow is nil.
func (fst *firstSet) findOfSequence(seq []symbol, follow *symbolSet) (*firstEntry, error) {
	entry := newFirstEntry()
	for _, sym := range seq {
		if fst.syms.isTerminal(sym) {
			entry.add(sym)
			return entry, nil
		}
		e := fst.findBySymbol(sym)
		if e == nil {
			return nil, fmt.Errorf("an entry of FIRST was not found; symbol: %v", fst.syms.toText(sym))
		}
		entry.mergeExceptEmpty(e)
		if !e.empty {
			return entry, nil
		}
	}
	if follow != nil {
		entry.symbols.merge(follow)
		return entry, nil
	}
	entry.addEmpty()
	return entry, nil
}

func (fst *firstSet) findBySymbol(sym symbol) *firstEntry {
	return fst.set[sym]
}

func genFirstSet(prods *productionSet, syms *symbolTable) (*firstSet, error) {
	fst := newFirstSet(prods, syms)
	for {
		more := false
		for _, prod := range prods.getAllProductions() {
			e := fst.findBySymbol(prod.lhs)
			changed, err := genProdFirstEntry(fst, e, prod)
			if err != nil {
				return nil, err
			}
			if changed {
				more = true
			}
		}
		if !more {
			break
		}
	}
	return fst, nil
}

func genProdFirstEntry(fst *firstSet, acc *firstEntry, prod *production) (bool, error) {
	if prod.isEmpty() {
		return acc.addEmpty(), nil
	}

	changed := false
	for _, sym := range prod.rhs {
		if fst.syms.isTerminal(sym) {
			return acc.add(sym) || changed, nil
		}
		e := fst.findBySymbol(sym)
		if e == nil {
			return false, fmt.Errorf("an entry of FIRST was not found; symbol: %v", fst.syms.toText(sym))
		}
		if acc.mergeExceptEmpty(e) {
			changed = true
		}
		if !e.empty {
			return changed, nil
		}
	}
	return acc.addEmpty() || changed, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

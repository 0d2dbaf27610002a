package lr

import (
	"fmt"

	"github.com/michelematteini/dslmanager/grammar"
)

type followEntry struct {
	symbols *symbolSet
}

func newFollowEntry() *followEntry {
	return &followEntry{
		symbols: newSymbolSet(),
	}
}

func (e *followEntry) merge(fst *firstEntry, flw *followEntry) bool {
	changed := false
	if fst != nil && e.symbols.merge(fst.symbols) {
		changed = true
	}
	if flw != nil && e.symbols.merge(flw.symbols) {
		changed = true
	}
	return changed
}

type followSet struct {
	set map[symbol]*followEntry
}

func newFollow(prods *productionSet) *followSet {
	flw := &followSet{
		set: map[symbol]*followEntry{},
	}
	for _, prod := range prods.getAllProductions() {
		if _, ok := flw.set[prod.lhs]; ok {
			continue
		}
		flw.set[prod.lhs] = newFollowEntry()
	}
	return flw
}

func (flw *followSet) find(sym symbol) (*followEntry, error) {
	e, ok := flw.set[sym]
	if !ok {
		return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %v", sym.Int())
	}
	return e, nil
}

// genFollowSet computes FOLLOW of every variable. The left-hand symbol of the first rule is
// the start symbol and is followed by the end of stream.
func genFollowSet(prods *productionSet, first *firstSet, syms *symbolTable) (*followSet, error) {
	flw := newFollow(prods)
	all := prods.getAllProductions()
	if len(all) == 0 {
		return flw, nil
	}
	start, err := flw.find(all[0].lhs)
	if err != nil {
		return nil, err
	}
	start.symbols.add(symbolEOF)

	for {
		more := false
		for _, prod := range all {
			for i, sym := range prod.rhs {
				if syms.isTerminal(sym) {
					continue
				}
				e, err := flw.find(sym)
				if err != nil {
					return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %v", syms.toText(sym))
				}
				fst, err := first.find(prod, i+1)
				if err != nil {
					return nil, err
				}
				if e.merge(fst, nil) {
					more = true
				}
				if fst.empty {
					lhs, err := flw.find(prod.lhs)
					if err != nil {
						return nil, err
					}
					if e.merge(nil, lhs) {
						more = true
					}
				}
			}
		}
		if !more {
			break
		}
	}
	return flw, nil
}

// FirstFollow holds the FIRST and FOLLOW sets of a grammar. The first rule defines the start
// symbol.
type FirstFollow struct {
	syms   *symbolTable
	first  *firstSet
	follow *followSet
}

func NewFirstFollow(rules []*grammar.DerivationRule) (*FirstFollow, error) {
	syms := newSymbolTable(rules)
	prods, err := newProductionSet(rules, syms)
	if err != nil {
		return nil, err
	}
	first, err := genFirstSet(prods, syms)
	if err != nil {
		return nil, err
	}
	follow, err := genFollowSet(prods, first, syms)
	if err != nil {
		return nil, err
	}
	return &FirstFollow{
		syms:   syms,
		first:  first,
		follow: follow,
	}, nil
}

// First returns FIRST of a symbol. The second result reports whether the symbol derives
// the empty string.
func (ff *FirstFollow) First(e grammar.Expression) ([]grammar.Token, bool, error) {
	sym, ok := ff.syms.toSymbol(e)
	if !ok {
		return nil, false, fmt.Errorf("an entry of FIRST was not found; symbol: %v", e)
	}
	entry, err := ff.first.findOfSequence([]symbol{sym}, nil)
	if err != nil {
		return nil, false, err
	}
	return ff.tokens(entry.symbols), entry.empty, nil
}

func (ff *FirstFollow) Follow(v *grammar.Variable) ([]grammar.Token, error) {
	sym, ok := ff.syms.toSymbol(v)
	if !ok {
		return nil, fmt.Errorf("an entry of FOLLOW was not found; symbol: %v", v)
	}
	e, err := ff.follow.find(sym)
	if err != nil {
		return nil, err
	}
	return ff.tokens(e.symbols), nil
}

func (ff *FirstFollow) tokens(s *symbolSet) []grammar.Token {
	syms := s.symbols()
	toks := make([]grammar.Token, len(syms))
	for i, sym := range syms {
		toks[i] = ff.syms.toExpression(sym).(grammar.Token)
	}
	return toks
}

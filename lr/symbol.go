package lr

import (
	"fmt"

	"github.com/michelematteini/dslmanager/grammar"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("dslmanager.lr")
}

// symbol numbers the grammar symbols of one automaton. Numbers follow the order in which the
// symbols first appear in the rules, so every table built from the same rules is identical.
type symbol int

const (
	symbolNil = symbol(-1)

	// symbolEOF is registered before any other symbol.
	symbolEOF = symbol(0)
)

func (s symbol) Int() int {
	return int(s)
}

func (s symbol) isNil() bool {
	return s == symbolNil
}

type symbolTable struct {
	exprs    []grammar.Expression
	terminal []bool
	ids      map[grammar.Key]symbol
}

func newSymbolTable(rules []*grammar.DerivationRule) *symbolTable {
	tab := &symbolTable{
		ids: map[grammar.Key]symbol{},
	}
	tab.register(grammar.EndOfStream)
	for _, r := range rules {
		tab.register(r.LHS)
	}
	for _, r := range rules {
		for _, sym := range r.Symbols() {
			tab.register(sym)
		}
	}
	return tab
}

func (t *symbolTable) register(e grammar.Expression) symbol {
	k := e.Key()
	if sym, ok := t.ids[k]; ok {
		return sym
	}
	sym := symbol(len(t.exprs))
	t.ids[k] = sym
	_, isVar := e.(*grammar.Variable)
	if tok, ok := e.(grammar.Token); ok {
		e = tok.Class()
	}
	t.exprs = append(t.exprs, e)
	t.terminal = append(t.terminal, !isVar)
	return sym
}

func (t *symbolTable) toSymbol(e grammar.Expression) (symbol, bool) {
	sym, ok := t.ids[e.Key()]
	if !ok {
		return symbolNil, false
	}
	return sym, true
}

func (t *symbolTable) toExpression(sym symbol) grammar.Expression {
	return t.exprs[sym]
}

func (t *symbolTable) toText(sym symbol) string {
	if sym.isNil() || sym.Int() >= len(t.exprs) {
		return fmt.Sprintf("<unknown symbol %v>", sym.Int())
	}
	return t.exprs[sym].String()
}

func (t *symbolTable) isTerminal(sym symbol) bool {
	return t.terminal[sym]
}

func (t *symbolTable) terminalSymbols() []symbol {
	var syms []symbol
	for i, term := range t.terminal {
		if term {
			syms = append(syms, symbol(i))
		}
	}
	return syms
}

func (t *symbolTable) nonTerminalSymbols() []symbol {
	var syms []symbol
	for i, term := range t.terminal {
		if !term {
			syms = append(syms, symbol(i))
		}
	}
	return syms
}

type production struct {
	num int
	lhs symbol
	rhs []symbol
}

func (p *production) isEmpty() bool {
	return len(p.rhs) == 0
}

type productionSet struct {
	prods     []*production
	lhs2Prods map[symbol][]*production
}

func newProductionSet(rules []*grammar.DerivationRule, syms *symbolTable) (*productionSet, error) {
	ps := &productionSet{
		lhs2Prods: map[symbol][]*production{},
	}
	for i, r := range rules {
		lhs, ok := syms.toSymbol(r.LHS)
		if !ok {
			return nil, fmt.Errorf("a left-hand symbol is not registered; rule: %v", r)
		}
		body := r.Symbols()
		rhs := make([]symbol, len(body))
		for j, e := range body {
			sym, ok := syms.toSymbol(e)
			if !ok {
				return nil, fmt.Errorf("a symbol is not registered; symbol: %v, rule: %v", e, r)
			}
			rhs[j] = sym
		}
		prod := &production{
			num: i,
			lhs: lhs,
			rhs: rhs,
		}
		ps.prods = append(ps.prods, prod)
		ps.lhs2Prods[lhs] = append(ps.lhs2Prods[lhs], prod)
	}
	return ps, nil
}

func (ps *productionSet) findByLHS(lhs symbol) ([]*production, bool) {
	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

func (ps *productionSet) getAllProductions() []*production {
	return ps.prods
}

package lr

import (
	"fmt"
	"strconv"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/michelematteini/dslmanager/grammar"
)

type stateNum int

const stateNumInitial = stateNum(0)

func (n stateNum) Int() int {
	return int(n)
}

func (n stateNum) String() string {
	return strconv.Itoa(int(n))
}

type lrState struct {
	num   stateNum
	items *itemSet

	// next maps a symbol to the state reached by shifting it. order lists the same symbols
	// in the order the transitions were discovered.
	next  map[symbol]stateNum
	order []symbol
}

// Diagram is the canonical LR(1) automaton of a grammar. The first rule defines the start
// symbol, and the closure of its items is state 0. States are numbered in the order a
// depth-first walk over the transitions discovers them.
type Diagram struct {
	rules  []*grammar.DerivationRule
	syms   *symbolTable
	prods  *productionSet
	first  *firstSet
	states *arraylist.List
	index  map[itemSetID]stateNum
}

func NewDiagram(rules []*grammar.DerivationRule) (*Diagram, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("a diagram needs at least one rule")
	}
	syms := newSymbolTable(rules)
	prods, err := newProductionSet(rules, syms)
	if err != nil {
		return nil, err
	}
	first, err := genFirstSet(prods, syms)
	if err != nil {
		return nil, err
	}
	d := &Diagram{
		rules:  rules,
		syms:   syms,
		prods:  prods,
		first:  first,
		states: arraylist.New(),
		index:  map[itemSetID]stateNum{},
	}

	root := newItemSet()
	startProds, _ := prods.findByLHS(prods.getAllProductions()[0].lhs)
	for _, prod := range startProds {
		item, _, err := root.at(prod, 0)
		if err != nil {
			return nil, err
		}
		item.lookAhead.add(symbolEOF)
	}
	if err := root.closure(prods, first, syms); err != nil {
		return nil, err
	}
	if err := d.expand(d.addState(root)); err != nil {
		return nil, err
	}
	tracer().Debugf("LR(1) diagram: %v states", d.states.Size())
	return d, nil
}

func (d *Diagram) addState(items *itemSet) *lrState {
	st := &lrState{
		num:   stateNum(d.states.Size()),
		items: items,
		next:  map[symbol]stateNum{},
	}
	d.states.Add(st)
	d.index[items.id()] = st.num
	return st
}

func (d *Diagram) expand(st *lrState) error {
	for _, sym := range st.items.shiftSymbols() {
		next, err := st.items.goTo(sym)
		if err != nil {
			return err
		}
		if err := next.closure(d.prods, d.first, d.syms); err != nil {
			return err
		}
		st.order = append(st.order, sym)
		if num, ok := d.index[next.id()]; ok {
			st.next[sym] = num
			continue
		}
		target := d.addState(next)
		st.next[sym] = target.num
		if err := d.expand(target); err != nil {
			return err
		}
	}
	return nil
}

func (d *Diagram) state(num stateNum) *lrState {
	v, ok := d.states.Get(num.Int())
	if !ok {
		panic(fmt.Sprintf("state %v does not exist", num))
	}
	return v.(*lrState)
}

func (d *Diagram) Rules() []*grammar.DerivationRule {
	return d.rules
}

func (d *Diagram) StateCount() int {
	return d.states.Size()
}

// Transition returns the state reached from a state by shifting a symbol.
func (d *Diagram) Transition(state int, e grammar.Expression) (int, bool) {
	if state < 0 || state >= d.StateCount() {
		return 0, false
	}
	sym, ok := d.syms.toSymbol(e)
	if !ok {
		return 0, false
	}
	num, ok := d.state(stateNum(state)).next[sym]
	return num.Int(), ok
}

// Items renders the items of a state, one per line, ordered by rule and dot.
func (d *Diagram) Items(state int) []string {
	st := d.state(stateNum(state))
	items := st.items.sorted()
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = formatItem(item, d.syms)
	}
	return texts
}

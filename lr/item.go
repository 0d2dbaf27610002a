package lr

import (
	"crypto/sha1"
	"fmt"
	"sort"
	"strings"

	"github.com/cnf/structhash"
)

type lrItem struct {
	prod *production

	// E → E + T
	//
	// Dot | Dotted Symbol | Item
	// ----+---------------+------------
	// 0   | E             | E →・E + T
	// 1   | +             | E → E・+ T
	// 2   | T             | E → E +・T
	// 3   | Nil           | E → E + T・
	dot          int
	dottedSymbol symbol

	// When reducible is true, the item looks like E → E + T・.
	reducible bool

	// lookAhead stores look-ahead symbols, and they are terminal symbols.
	// The item is reducible only when the look-ahead symbols appear as the next input symbol.
	lookAhead *symbolSet
}

func newLRItem(prod *production, dot int) (*lrItem, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}
	if dot < 0 || dot > len(prod.rhs) {
		return nil, fmt.Errorf("dot must be between 0 and %v", len(prod.rhs))
	}

	dottedSymbol := symbolNil
	if dot < len(prod.rhs) {
		dottedSymbol = prod.rhs[dot]
	}

	return &lrItem{
		prod:         prod,
		dot:          dot,
		dottedSymbol: dottedSymbol,
		reducible:    dot == len(prod.rhs),
		lookAhead:    newSymbolSet(),
	}, nil
}

// itemPos is the position of an item, that is the item without its look-ahead symbols.
type itemPos struct {
	prod int
	dot  int
}

type itemSetID [sha1.Size]byte

func (id itemSetID) String() string {
	return fmt.Sprintf("%x", id[:4])
}

// itemHashNode and itemSetHashNode are the structures hashed to identify an item set.
type itemHashNode struct {
	Rule      int
	Dot       int
	LookAhead []int
}

type itemSetHashNode struct {
	Items []itemHashNode
}

// itemSet is a set of LR(1) items. Two items at the same position are merged into one item
// holding the union of their look-ahead symbols.
type itemSet struct {
	items []*lrItem
	byPos map[itemPos]*lrItem
}

func newItemSet() *itemSet {
	return &itemSet{
		byPos: map[itemPos]*lrItem{},
	}
}

// at returns the item at a position, adding an item without look-ahead symbols when the
// set has none.
func (s *itemSet) at(prod *production, dot int) (*lrItem, bool, error) {
	pos := itemPos{
		prod: prod.num,
		dot:  dot,
	}
	if item, ok := s.byPos[pos]; ok {
		return item, false, nil
	}
	item, err := newLRItem(prod, dot)
	if err != nil {
		return nil, false, err
	}
	s.items = append(s.items, item)
	s.byPos[pos] = item
	return item, true, nil
}

// closure adds the items predicted by the items of the set. An item whose look-ahead
// symbols grow is processed again so that the growth reaches the items it predicts.
func (s *itemSet) closure(prods *productionSet, first *firstSet, syms *symbolTable) error {
	unprocItems := make([]*lrItem, len(s.items))
	copy(unprocItems, s.items)
	for len(unprocItems) > 0 {
		cur := unprocItems[len(unprocItems)-1]
		unprocItems = unprocItems[:len(unprocItems)-1]

		if cur.reducible || syms.isTerminal(cur.dottedSymbol) {
			continue
		}
		predicted, ok := prods.findByLHS(cur.dottedSymbol)
		if !ok {
			return fmt.Errorf("no rule defines %v", syms.toText(cur.dottedSymbol))
		}
		la, err := first.findOfSequence(cur.prod.rhs[cur.dot+1:], cur.lookAhead)
		if err != nil {
			return err
		}
		for _, prod := range predicted {
			item, added, err := s.at(prod, 0)
			if err != nil {
				return err
			}
			grown := item.lookAhead.merge(la.symbols)
			if added || grown {
				unprocItems = append(unprocItems, item)
			}
		}
	}
	return nil
}

// sorted returns the items ordered by rule and dot.
func (s *itemSet) sorted() []*lrItem {
	items := make([]*lrItem, len(s.items))
	copy(items, s.items)
	sort.Slice(items, func(i, j int) bool {
		if items[i].prod.num != items[j].prod.num {
			return items[i].prod.num < items[j].prod.num
		}
		return items[i].dot < items[j].dot
	})
	return items
}

// shiftSymbols returns the dotted symbols of the set in the order of the sorted items.
func (s *itemSet) shiftSymbols() []symbol {
	var syms []symbol
	seen := map[symbol]struct{}{}
	for _, item := range s.sorted() {
		if item.reducible {
			continue
		}
		if _, ok := seen[item.dottedSymbol]; ok {
			continue
		}
		seen[item.dottedSymbol] = struct{}{}
		syms = append(syms, item.dottedSymbol)
	}
	return syms
}

// goTo returns the kernel of the set reached by shifting sym.
func (s *itemSet) goTo(sym symbol) (*itemSet, error) {
	next := newItemSet()
	for _, item := range s.sorted() {
		if item.reducible || item.dottedSymbol != sym {
			continue
		}
		shifted, _, err := next.at(item.prod, item.dot+1)
		if err != nil {
			return nil, err
		}
		shifted.lookAhead.merge(item.lookAhead)
	}
	return next, nil
}

// shiftingRules returns the rules of the items shifting sym.
func (s *itemSet) shiftingRules(sym symbol) []int {
	var rules []int
	for _, item := range s.sorted() {
		if item.reducible || item.dottedSymbol != sym {
			continue
		}
		rules = append(rules, item.prod.num)
	}
	return rules
}

func (s *itemSet) id() itemSetID {
	node := itemSetHashNode{}
	for _, item := range s.sorted() {
		node.Items = append(node.Items, itemHashNode{
			Rule:      item.prod.num,
			Dot:       item.dot,
			LookAhead: item.lookAhead.ints(),
		})
	}
	var id itemSetID
	copy(id[:], structhash.Sha1(node, 1))
	return id
}

func formatItem(item *lrItem, syms *symbolTable) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v →", syms.toText(item.prod.lhs))
	for i, sym := range item.prod.rhs {
		if i == item.dot {
			fmt.Fprintf(&b, " ・")
		}
		fmt.Fprintf(&b, " %v", syms.toText(sym))
	}
	if item.reducible {
		fmt.Fprintf(&b, " ・")
	}
	la := item.lookAhead.symbols()
	texts := make([]string, len(la))
	for i, sym := range la {
		texts[i] = syms.toText(sym)
	}
	fmt.Fprintf(&b, " [%v]", strings.Join(texts, ", "))
	return b.String()
}

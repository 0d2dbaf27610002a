package lr

import (
	"fmt"
	"sort"

	"github.com/michelematteini/dslmanager/diagnostic"
	"github.com/michelematteini/dslmanager/grammar"
)

// NewParseTable fills the parse table of a diagram. prios holds the priority of every rule
// of the diagram; a nil slice gives every rule the default priority. Conflicts never make
// the construction fail: they are resolved by priority, recorded in the table and reported
// to the sink as warnings.
func NewParseTable(d *Diagram, prios []grammar.RulePriority, sink diagnostic.Sink) (*ParseTable, error) {
	if prios != nil && len(prios) != len(d.rules) {
		return nil, fmt.Errorf("the priorities do not match the rules; rules: %v, priorities: %v", len(d.rules), len(prios))
	}
	b := &lrTableBuilder{
		diagram: d,
		prios:   prios,
		sink:    sink,
	}
	return b.build()
}

type lrTableBuilder struct {
	diagram *Diagram
	prios   []grammar.RulePriority
	sink    diagnostic.Sink

	conflicts []Conflict
}

func (b *lrTableBuilder) priority(rule int) grammar.RulePriority {
	if b.prios == nil {
		return grammar.Default
	}
	return b.prios[rule]
}

func (b *lrTableBuilder) build() (*ParseTable, error) {
	d := b.diagram
	stateCount := d.StateCount()
	ptab := &ParseTable{
		rules:    d.rules,
		syms:     d.syms,
		actions:  make([]map[symbol]Action, stateCount),
		expected: make([]*symbolSet, stateCount),
	}
	for i := 0; i < stateCount; i++ {
		ptab.actions[i] = map[symbol]Action{}
		ptab.expected[i] = newSymbolSet()
	}

	for i := 0; i < stateCount; i++ {
		st := d.state(stateNum(i))
		reductions := b.matchReductions(st)
		srReported := false

		for _, sym := range st.order {
			nextState := st.next[sym]
			if !d.syms.isTerminal(sym) {
				ptab.writeAction(st.num, sym, Action{
					Type:   ActionTypeGoTo,
					Target: nextState.Int(),
				})
				continue
			}
			if rule, ok := reductions[sym]; ok && !b.reduceOverShift(st, sym, nextState, rule, &srReported) {
				delete(reductions, sym)
			}
			ptab.writeAction(st.num, sym, Action{
				Type:   ActionTypeShift,
				Target: nextState.Int(),
			})
		}

		// A reduction still competing with a shift has a higher priority and replaces it.
		lookAheads := make([]symbol, 0, len(reductions))
		for sym := range reductions {
			lookAheads = append(lookAheads, sym)
		}
		sort.Slice(lookAheads, func(i, j int) bool {
			return lookAheads[i] < lookAheads[j]
		})
		for _, sym := range lookAheads {
			ptab.writeAction(st.num, sym, Action{
				Type:   ActionTypeReduce,
				Target: reductions[sym],
			})
		}
	}

	ptab.writeAction(stateNumInitial, symbolEOF, Action{
		Type: ActionTypeAccept,
	})

	ptab.conflicts = b.conflicts
	if len(b.conflicts) > 0 {
		for _, c := range b.conflicts {
			tracer().Infof("%v", c)
		}
		diagnostic.Send(b.sink, fmt.Sprintf("Found %v conflicts.", len(b.conflicts)), diagnostic.Warning)
	}
	tracer().Debugf("parse table: %v states, %v conflicts", stateCount, len(b.conflicts))

	return ptab, nil
}

// matchReductions maps each look-ahead symbol of the reducible items of a state to the rule
// to reduce. The rule with the higher reduce priority wins; on a tie the rule found first
// is kept and the conflict is recorded.
func (b *lrTableBuilder) matchReductions(st *lrState) map[symbol]int {
	reductions := map[symbol]int{}
	for _, item := range st.items.sorted() {
		if !item.reducible {
			continue
		}
		rule := item.prod.num
		prio := b.priority(rule).Reduce
		for _, a := range item.lookAhead.symbols() {
			cur, ok := reductions[a]
			if !ok {
				reductions[a] = rule
				continue
			}
			curPrio := b.priority(cur).Reduce
			switch {
			case prio > curPrio:
				reductions[a] = rule
			case prio == curPrio:
				c := &ReduceReduceConflict{
					State:    st.num.Int(),
					Symbol:   b.diagram.syms.toExpression(a).(grammar.Token),
					Rule1:    cur,
					Rule2:    rule,
					Priority: prio,
				}
				b.conflicts = append(b.conflicts, c)
				diagnostic.Send(b.sink, fmt.Sprintf("Reduce/Reduce conflict detected: %v", c), diagnostic.Warning)
			}
		}
	}
	return reductions
}

// reduceOverShift reports whether a reduction wins over the shift of the same symbol. The
// reduce priority of the rule is compared with the highest shift priority among the rules
// shifting the symbol; the shift wins ties. Only the first tie of a state is recorded as a
// conflict.
func (b *lrTableBuilder) reduceOverShift(st *lrState, sym symbol, nextState stateNum, rule int, reported *bool) bool {
	reducePrio := b.priority(rule).Reduce
	maxShiftPrio := grammar.LowestPriority
	maxShiftRule := -1
	for _, r := range st.items.shiftingRules(sym) {
		if maxShiftRule < 0 || maxShiftPrio < b.priority(r).Shift {
			maxShiftPrio = b.priority(r).Shift
			maxShiftRule = r
		}
	}
	if reducePrio == maxShiftPrio && !*reported {
		*reported = true
		c := &ShiftReduceConflict{
			State:     st.num.Int(),
			Symbol:    b.diagram.syms.toExpression(sym).(grammar.Token),
			NextState: nextState.Int(),
			Rule:      rule,
			ShiftRule: maxShiftRule,
			Priority:  reducePrio,
		}
		b.conflicts = append(b.conflicts, c)
		diagnostic.Send(b.sink, fmt.Sprintf("Shift/Reduce conflict detected: %v", c), diagnostic.Warning)
	}
	return reducePrio > maxShiftPrio
}

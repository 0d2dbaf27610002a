package lr

import (
	"fmt"

	"github.com/michelematteini/dslmanager/grammar"
)

type ActionType string

const (
	ActionTypeShift  = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeGoTo   = ActionType("goto")
	ActionTypeAccept = ActionType("accept")
)

// Action is an entry of the parse table. Target is the next state of a shift or a goto and
// the rule of a reduction; it is 0 for an accept.
type Action struct {
	Type   ActionType
	Target int
}

func (a Action) String() string {
	if a.Type == ActionTypeAccept {
		return string(a.Type)
	}
	return fmt.Sprintf("%v %v", a.Type, a.Target)
}

type Conflict interface {
	conflict()
	fmt.Stringer
}

// ShiftReduceConflict is a reduction competing with a shift at the same priority. The shift
// is kept.
type ShiftReduceConflict struct {
	State     int
	Symbol    grammar.Token
	NextState int
	Rule      int
	ShiftRule int
	Priority  int
}

func (c *ShiftReduceConflict) conflict() {
}

func (c *ShiftReduceConflict) String() string {
	return fmt.Sprintf("shift/reduce conflict (shift %v, reduce %v) on %v in state %v: both have priority %v; shift adopted",
		c.NextState, c.Rule, c.Symbol, c.State, c.Priority)
}

// ReduceReduceConflict is two reductions on the same look-ahead symbol at the same priority.
// The rule found first is kept.
type ReduceReduceConflict struct {
	State    int
	Symbol   grammar.Token
	Rule1    int
	Rule2    int
	Priority int
}

func (c *ReduceReduceConflict) conflict() {
}

func (c *ReduceReduceConflict) String() string {
	return fmt.Sprintf("reduce/reduce conflict (%v, %v) on %v in state %v: both have priority %v; reduce %v adopted",
		c.Rule1, c.Rule2, c.Symbol, c.State, c.Priority, c.Rule1)
}

var (
	_ Conflict = &ShiftReduceConflict{}
	_ Conflict = &ReduceReduceConflict{}
)

// ParseTable maps a state and a symbol to an action. Lookups of tokens go through their
// class, so an instance token produced by a tokenizer finds the action of its class.
type ParseTable struct {
	rules     []*grammar.DerivationRule
	syms      *symbolTable
	actions   []map[symbol]Action
	expected  []*symbolSet
	conflicts []Conflict
}

func (t *ParseTable) readAction(state stateNum, sym symbol) (Action, bool) {
	act, ok := t.actions[state][sym]
	return act, ok
}

func (t *ParseTable) writeAction(state stateNum, sym symbol, act Action) {
	t.actions[state][sym] = act
	if t.syms.isTerminal(sym) {
		t.expected[state].add(sym)
	}
}

func (t *ParseTable) StateCount() int {
	return len(t.actions)
}

func (t *ParseTable) Rules() []*grammar.DerivationRule {
	return t.rules
}

func (t *ParseTable) Rule(i int) *grammar.DerivationRule {
	return t.rules[i]
}

// Action returns the action of a state on a terminal or, for a variable, its goto.
func (t *ParseTable) Action(state int, e grammar.Expression) (Action, bool) {
	if state < 0 || state >= len(t.actions) {
		return Action{}, false
	}
	sym, ok := t.syms.toSymbol(e)
	if !ok {
		return Action{}, false
	}
	return t.readAction(stateNum(state), sym)
}

// GoTo returns the state reached from a state after a reduction to v.
func (t *ParseTable) GoTo(state int, v *grammar.Variable) (int, bool) {
	act, ok := t.Action(state, v)
	if !ok || act.Type != ActionTypeGoTo {
		return 0, false
	}
	return act.Target, true
}

// Expected returns the terminals having an action in a state, ordered by their first
// appearance in the rules. The end of stream comes first.
func (t *ParseTable) Expected(state int) []grammar.Token {
	if state < 0 || state >= len(t.expected) {
		return nil
	}
	syms := t.expected[state].symbols()
	toks := make([]grammar.Token, len(syms))
	for i, sym := range syms {
		toks[i] = t.syms.toExpression(sym).(grammar.Token)
	}
	return toks
}

func (t *ParseTable) Conflicts() []Conflict {
	return t.conflicts
}

// Entry is one action of the table in exportable form.
type Entry struct {
	State  int    `json:"state"`
	Symbol string `json:"symbol"`
	Action string `json:"action"`
	Target int    `json:"target"`
}

// Entries lists every action ordered by state and then by symbol.
func (t *ParseTable) Entries() []Entry {
	var entries []Entry
	for state, acts := range t.actions {
		for i := range t.syms.exprs {
			act, ok := acts[symbol(i)]
			if !ok {
				continue
			}
			entries = append(entries, Entry{
				State:  state,
				Symbol: t.syms.toText(symbol(i)),
				Action: string(act.Type),
				Target: act.Target,
			})
		}
	}
	return entries
}

package grammar

import "fmt"

const (
	DefaultPriority = 1
	LowestPriority  = -1000
)

// RulePriority breaks parsing conflicts. When a reduction by a rule competes with a shift,
// the reduction wins only if its Reduce priority strictly exceeds the highest Shift priority
// among the rules shifting the same token.
type RulePriority struct {
	Shift  int
	Reduce int
}

var (
	Default = RulePriority{Shift: DefaultPriority, Reduce: DefaultPriority}
	Lowest  = RulePriority{Shift: LowestPriority, Reduce: LowestPriority}
)

// ReduceOver returns a priority whose reductions win over p.
func ReduceOver(p RulePriority) RulePriority {
	return RulePriority{
		Shift:  p.Shift,
		Reduce: p.max() + 1,
	}
}

// ShiftOver returns a priority whose shifts win over p.
func ShiftOver(p RulePriority) RulePriority {
	return RulePriority{
		Shift:  p.max() + 1,
		Reduce: p.Reduce,
	}
}

// Override returns a priority that wins over p both when shifting and when reducing.
func Override(p RulePriority) RulePriority {
	return RulePriority{
		Shift:  p.max() + 1,
		Reduce: p.max() + 1,
	}
}

// HigherReduce returns the default priority with its reductions raised by n.
func HigherReduce(n int) RulePriority {
	return RulePriority{
		Shift:  DefaultPriority,
		Reduce: DefaultPriority + n,
	}
}

// HigherShift returns the default priority with its shifts raised by n.
func HigherShift(n int) RulePriority {
	return RulePriority{
		Shift:  DefaultPriority + n,
		Reduce: DefaultPriority,
	}
}

func (p RulePriority) max() int {
	if p.Shift > p.Reduce {
		return p.Shift
	}
	return p.Reduce
}

func (p RulePriority) String() string {
	return fmt.Sprintf("(shift: %v, reduce: %v)", p.Shift, p.Reduce)
}

// AnyAlternative makes a priority entry apply to every alternative of a rule.
const AnyAlternative = -1

// RuleRef names an authored rule, or one of its top-level alternatives.
type RuleRef struct {
	Rule        int
	Alternative int
}

// PriorityMap assigns priorities to authored rules.
type PriorityMap map[RuleRef]RulePriority

// Set assigns p to every alternative of an authored rule.
func (m PriorityMap) Set(rule int, p RulePriority) {
	m[RuleRef{Rule: rule, Alternative: AnyAlternative}] = p
}

// SetAlternative assigns p to one top-level alternative of an authored rule.
func (m PriorityMap) SetAlternative(rule, alt int, p RulePriority) {
	m[RuleRef{Rule: rule, Alternative: alt}] = p
}

// Lookup returns the priority of an alternative, falling back to the rule's priority and
// then to Default.
func (m PriorityMap) Lookup(rule, alt int) RulePriority {
	if p, ok := m[RuleRef{Rule: rule, Alternative: alt}]; ok {
		return p
	}
	if p, ok := m[RuleRef{Rule: rule, Alternative: AnyAlternative}]; ok {
		return p
	}
	return Default
}

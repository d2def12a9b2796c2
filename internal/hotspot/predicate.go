package hotspot

import "fmt"

// DefaultSecondaryThreshold is the vegetation-index cutoff used when
// the caller does not supply one. Cells at or above it are considered
// vegetated and excluded.
const DefaultSecondaryThreshold = 0.2

// Operand selects which grid of an aligned pair a condition reads.
type Operand int

const (
	PrimaryGrid Operand = iota
	SecondaryGrid
)

// Comparison selects how a sample is tested against a threshold.
type Comparison int

const (
	Greater Comparison = iota
	Less
)

func (c Comparison) String() string {
	switch c {
	case Greater:
		return "gt"
	case Less:
		return "lt"
	default:
		return fmt.Sprintf("Comparison(%d)", int(c))
	}
}

// Condition tests one grid's sample against a threshold.
type Condition struct {
	Operand   Operand
	Compare   Comparison
	Threshold float64
}

func (c Condition) holds(primary, secondary float64) bool {
	v := primary
	if c.Operand == SecondaryGrid {
		v = secondary
	}
	switch c.Compare {
	case Greater:
		return v > c.Threshold
	case Less:
		return v < c.Threshold
	default:
		return false
	}
}

// Predicate is a conjunction of conditions evaluated per cell over an
// aligned grid pair. An empty predicate matches nothing.
type Predicate struct {
	Conditions []Condition
}

// DefaultPredicate matches cells where the primary sample exceeds
// primaryThreshold and the secondary sample is below secondaryThreshold.
func DefaultPredicate(primaryThreshold, secondaryThreshold float64) Predicate {
	return Predicate{Conditions: []Condition{
		{Operand: PrimaryGrid, Compare: Greater, Threshold: primaryThreshold},
		{Operand: SecondaryGrid, Compare: Less, Threshold: secondaryThreshold},
	}}
}

// Evaluate reports whether every condition holds for the given samples.
func (p Predicate) Evaluate(primary, secondary float64) bool {
	if len(p.Conditions) == 0 {
		return false
	}
	for _, c := range p.Conditions {
		if !c.holds(primary, secondary) {
			return false
		}
	}
	return true
}

package input

import (
	"fmt"
)

// Limits bound the data accepted for solving.
type Limits struct {
	MinCount    int
	MaxCount    int
	MaxDecimals int
}

func DefaultLimits() Limits {
	return Limits{MinCount: 10, MaxCount: 200, MaxDecimals: 2}
}

// ValidationError describes the first value or property of a number
// list that is outside the Limits.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the count and the precision of n.
func Validate(n *Numbers, l Limits) error {
	if n.Len() == 0 {
		return ValidationError{Field: "count", Reason: "no numbers found"}
	}
	if n.Len() < l.MinCount || n.Len() > l.MaxCount {
		return ValidationError{
			Field:  "count",
			Reason: fmt.Sprintf("%d numbers is outside %d-%d", n.Len(), l.MinCount, l.MaxCount),
		}
	}
	for i := range n.Values {
		if d := n.Decimals(i); d > l.MaxDecimals {
			return ValidationError{
				Field:  fmt.Sprintf("value %d", i),
				Reason: fmt.Sprintf("%s has %d decimal places, at most %d allowed", n.Text[i], d, l.MaxDecimals),
			}
		}
	}
	return nil
}

package verdict

import "fmt"

// Policy is the verification threshold table. It is plain data so a
// deployment profile can retune it without touching resolution logic, and
// Evaluate is referentially transparent given a count.
type Policy struct {
	// ConfirmAt is the smallest confirmed-unit count that yields Confirmed.
	ConfirmAt int
	// RejectBelow is the smallest count that avoids Rejected. Counts in
	// [RejectBelow, ConfirmAt) are Indeterminate.
	RejectBelow int
}

// DefaultPolicy returns the reference table for the 8-unit population:
// 6 or more Confirmed, fewer than 3 Rejected, otherwise Indeterminate.
func DefaultPolicy() Policy {
	return Policy{ConfirmAt: 6, RejectBelow: 3}
}

// Validate checks the table's internal consistency.
func (p Policy) Validate() error {
	if p.RejectBelow < 0 {
		return fmt.Errorf("reject_below must not be negative, got %d", p.RejectBelow)
	}
	if p.ConfirmAt < p.RejectBelow {
		return fmt.Errorf("confirm_at (%d) must not be below reject_below (%d)", p.ConfirmAt, p.RejectBelow)
	}
	return nil
}

// Evaluate maps a confirmed-unit count onto a verdict.
func (p Policy) Evaluate(confirmed int) Verdict {
	switch {
	case confirmed >= p.ConfirmAt:
		return Confirmed
	case confirmed < p.RejectBelow:
		return Rejected
	default:
		return Indeterminate
	}
}

package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidLine is returned when a basket line breaks a record invariant.
var ErrInvalidLine = errors.New("invalid basket line")

// BasketLine is one item entry within a shopping transaction.
type BasketLine struct {
	RunID    string   // campaign run that produced the line
	Scenario Scenario // baseline | treated

	TransactionID string // shared by every line of one trip
	RespondentID  string // shopper, many-to-one with transactions
	Region        string
	Retailer      string

	// Shopper attributes carried through from the respondent
	Age           int
	IncomeBracket string
	Loyalty       *bool // nil when the variant does not track loyalty

	Item       string
	Category   string
	Quantity   int     // > 0
	UnitPrice  float64 // net of loyalty and promo discount
	TotalPrice float64 // round(quantity * unit_price, 2)
}

// IsLoyal reports whether the line belongs to a known loyalty member.
func (l *BasketLine) IsLoyal() bool {
	return l.Loyalty != nil && *l.Loyalty
}

// IsNonLoyal reports whether the line belongs to a known non-member.
func (l *BasketLine) IsNonLoyal() bool {
	return l.Loyalty != nil && !*l.Loyalty
}

// Validate checks the per-line invariants.
func (l *BasketLine) Validate() error {
	if l.TransactionID == "" || l.RespondentID == "" || l.Item == "" {
		return fmt.Errorf("%w: missing identifier", ErrInvalidLine)
	}
	if l.Quantity <= 0 {
		return fmt.Errorf("%w: transaction %s item %s: quantity %d", ErrInvalidLine, l.TransactionID, l.Item, l.Quantity)
	}
	if l.UnitPrice < 0 {
		return fmt.Errorf("%w: transaction %s item %s: unit price %.2f", ErrInvalidLine, l.TransactionID, l.Item, l.UnitPrice)
	}
	if want := RoundCents(float64(l.Quantity) * l.UnitPrice); math.Abs(want-l.TotalPrice) > 1e-9 {
		return fmt.Errorf("%w: transaction %s item %s: total %.2f, want %.2f", ErrInvalidLine, l.TransactionID, l.Item, l.TotalPrice, want)
	}
	return nil
}

// ValidateLines checks every line plus the per-transaction invariant that
// lines sharing a transaction_id share respondent, region and retailer.
func ValidateLines(lines []*BasketLine) error {
	first := make(map[string]*BasketLine)
	for _, l := range lines {
		if l == nil {
			return fmt.Errorf("%w: nil line", ErrInvalidLine)
		}
		if err := l.Validate(); err != nil {
			return err
		}
		head, seen := first[l.TransactionID]
		if !seen {
			first[l.TransactionID] = l
			continue
		}
		if head.RespondentID != l.RespondentID || head.Region != l.Region || head.Retailer != l.Retailer {
			return fmt.Errorf("%w: transaction %s mixes shoppers, regions or retailers", ErrInvalidLine, l.TransactionID)
		}
	}
	return nil
}

// RoundCents rounds a monetary value to 2 decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Bool returns a pointer to v, for optional loyalty flags.
func Bool(v bool) *bool {
	return &v
}

package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidPromo is returned when a promo spec is out of range or ambiguous.
var ErrInvalidPromo = errors.New("invalid promo spec")

// Discount bounds, in percent.
const (
	MinDiscountPct = 0
	MaxDiscountPct = 50
)

// PromoSelection is one discounted item.
type PromoSelection struct {
	Item        string `yaml:"item" json:"item"`
	DiscountPct int    `yaml:"discount_pct" json:"discount_pct"`
}

// PromoSpec holds the discount percentages for one region.
// Selections keep insertion order; items not listed carry no discount.
type PromoSpec struct {
	Region     string           `json:"region"`
	Selections []PromoSelection `json:"selections"`
}

// Discount returns the discount percentage for item, 0 if absent.
func (p PromoSpec) Discount(item string) int {
	for _, s := range p.Selections {
		if s.Item == item {
			return s.DiscountPct
		}
	}
	return 0
}

// Items returns the promo items in insertion order.
func (p PromoSpec) Items() []string {
	items := make([]string, len(p.Selections))
	for i, s := range p.Selections {
		items[i] = s.Item
	}
	return items
}

// Validate checks discount range and item uniqueness.
func (p PromoSpec) Validate() error {
	seen := make(map[string]struct{}, len(p.Selections))
	for _, s := range p.Selections {
		if s.Item == "" {
			return fmt.Errorf("%w: %s: empty item", ErrInvalidPromo, p.Region)
		}
		if s.DiscountPct < MinDiscountPct || s.DiscountPct > MaxDiscountPct {
			return fmt.Errorf("%w: %s: %s discount %d outside [%d, %d]",
				ErrInvalidPromo, p.Region, s.Item, s.DiscountPct, MinDiscountPct, MaxDiscountPct)
		}
		if _, dup := seen[s.Item]; dup {
			return fmt.Errorf("%w: %s: duplicate item %s", ErrInvalidPromo, p.Region, s.Item)
		}
		seen[s.Item] = struct{}{}
	}
	return nil
}

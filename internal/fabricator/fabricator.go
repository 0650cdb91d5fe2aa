// Package fabricator generates synthetic respondents and basket lines from
// a product catalog using seeded weighted random choice.
package fabricator

import (
	"fmt"
	"math/rand/v2"

	"retail-promo-lab/internal/domain"
	"retail-promo-lab/internal/idhash"
)

// Config controls basket shape and pricing.
type Config struct {
	Catalog        []domain.Product
	IncomeBrackets []domain.Weighted
	Retailers      []domain.Weighted

	MinItems    int // distinct products per basket
	MaxItems    int
	MaxQuantity int // quantity drawn from [1, MaxQuantity]
	MinAge      int
	MaxAge      int

	LoyaltyDiscountPct float64 // applied before any promo
}

// DefaultConfig returns the configuration used by campaign runs.
func DefaultConfig() Config {
	return Config{
		Catalog:            domain.DefaultCatalog,
		IncomeBrackets:     domain.IncomeBrackets,
		Retailers:          domain.Retailers,
		MinItems:           3,
		MaxItems:           6,
		MaxQuantity:        3,
		MinAge:             18,
		MaxAge:             80,
		LoyaltyDiscountPct: 10,
	}
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if len(c.Catalog) == 0 {
		return fmt.Errorf("fabricator: empty catalog")
	}
	if c.MinItems < 1 || c.MaxItems < c.MinItems || c.MaxItems > len(c.Catalog) {
		return fmt.Errorf("fabricator: basket size [%d, %d] invalid for %d products", c.MinItems, c.MaxItems, len(c.Catalog))
	}
	if c.MaxQuantity < 1 {
		return fmt.Errorf("fabricator: max quantity %d < 1", c.MaxQuantity)
	}
	if c.MaxAge < c.MinAge {
		return fmt.Errorf("fabricator: age range [%d, %d] invalid", c.MinAge, c.MaxAge)
	}
	if len(c.IncomeBrackets) == 0 || len(c.Retailers) == 0 {
		return fmt.Errorf("fabricator: income brackets and retailers are required")
	}
	return nil
}

// Fabricator produces records from a seeded source. It is not safe for
// concurrent use; create one per run.
type Fabricator struct {
	cfg Config
	rng *rand.Rand
}

// New creates a fabricator. The same seed and config yield the same records
// for the same sequence of calls.
func New(seed uint64, cfg Config) (*Fabricator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Fabricator{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}, nil
}

// Respondents creates n shoppers for region.
func (f *Fabricator) Respondents(region string, n int) []domain.Respondent {
	out := make([]domain.Respondent, n)
	for i := 0; i < n; i++ {
		out[i] = domain.Respondent{
			RespondentID:  fmt.Sprintf("%s_%d", region, i),
			Region:        region,
			Age:           f.intBetween(f.cfg.MinAge, f.cfg.MaxAge),
			IncomeBracket: weightedChoice(f.rng, f.cfg.IncomeBrackets),
			Loyalty:       f.rng.IntN(2) == 0,
		}
	}
	return out
}

// Basket creates the lines of one shopping trip. Loyalty members get the
// loyalty discount first, then the promo discount for the item applies.
func (f *Fabricator) Basket(runID string, scenario domain.Scenario, r domain.Respondent, promo domain.PromoSpec, trip int) []*domain.BasketLine {
	txID := idhash.ComputeTransactionID(runID, scenario, r.Region, r.RespondentID, trip)
	retailer := weightedChoice(f.rng, f.cfg.Retailers)
	size := f.intBetween(f.cfg.MinItems, f.cfg.MaxItems)
	picks := f.rng.Perm(len(f.cfg.Catalog))[:size]

	lines := make([]*domain.BasketLine, 0, size)
	for _, idx := range picks {
		product := f.cfg.Catalog[idx]
		qty := f.intBetween(1, f.cfg.MaxQuantity)

		price := product.Price
		if r.Loyalty {
			price *= 1 - f.cfg.LoyaltyDiscountPct/100
		}
		price *= 1 - float64(promo.Discount(product.Item))/100
		unit := domain.RoundCents(price)

		lines = append(lines, &domain.BasketLine{
			RunID:         runID,
			Scenario:      scenario,
			TransactionID: txID,
			RespondentID:  r.RespondentID,
			Region:        r.Region,
			Retailer:      retailer,
			Age:           r.Age,
			IncomeBracket: r.IncomeBracket,
			Loyalty:       domain.Bool(r.Loyalty),
			Item:          product.Item,
			Category:      product.Category,
			Quantity:      qty,
			UnitPrice:     unit,
			TotalPrice:    domain.RoundCents(float64(qty) * unit),
		})
	}
	return lines
}

// Baskets creates one trip per respondent and flattens the lines.
func (f *Fabricator) Baskets(runID string, scenario domain.Scenario, respondents []domain.Respondent, promo domain.PromoSpec) []*domain.BasketLine {
	var lines []*domain.BasketLine
	for _, r := range respondents {
		lines = append(lines, f.Basket(runID, scenario, r, promo, 0)...)
	}
	return lines
}

// intBetween returns a uniform int in [lo, hi].
func (f *Fabricator) intBetween(lo, hi int) int {
	return lo + f.rng.IntN(hi-lo+1)
}

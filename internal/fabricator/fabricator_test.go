package fabricator

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"

	"retail-promo-lab/internal/domain"
)

func newTestFabricator(t *testing.T, seed uint64) *Fabricator {
	t.Helper()
	f, err := New(seed, DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return f
}

func TestFabricator_Deterministic(t *testing.T) {
	promo := domain.PromoSpec{Region: "Ontario", Selections: []domain.PromoSelection{{Item: "Milk", DiscountPct: 25}}}

	var first []*domain.BasketLine
	for run := 0; run < 3; run++ {
		f := newTestFabricator(t, 42)
		respondents := f.Respondents("Ontario", 50)
		lines := f.Baskets("run-1", domain.ScenarioTreated, respondents, promo)

		if run == 0 {
			first = lines
			continue
		}
		if !reflect.DeepEqual(first, lines) {
			t.Fatalf("Run %d: same seed produced different lines", run)
		}
	}
}

func TestFabricator_DifferentSeeds(t *testing.T) {
	a := newTestFabricator(t, 1).Respondents("Quebec", 100)
	b := newTestFabricator(t, 2).Respondents("Quebec", 100)

	if reflect.DeepEqual(a, b) {
		t.Error("different seeds produced identical respondents")
	}
}

func TestFabricator_Respondents(t *testing.T) {
	cfg := DefaultConfig()
	respondents := newTestFabricator(t, 7).Respondents("Alberta", 300)

	if len(respondents) != 300 {
		t.Fatalf("expected 300 respondents, got %d", len(respondents))
	}

	brackets := make(map[string]bool)
	for _, w := range cfg.IncomeBrackets {
		brackets[w.Value] = true
	}

	var loyal int
	for i, r := range respondents {
		if r.Region != "Alberta" {
			t.Errorf("respondent %d: region %q", i, r.Region)
		}
		if r.Age < cfg.MinAge || r.Age > cfg.MaxAge {
			t.Errorf("respondent %d: age %d out of range", i, r.Age)
		}
		if !brackets[r.IncomeBracket] {
			t.Errorf("respondent %d: unknown bracket %q", i, r.IncomeBracket)
		}
		if r.Loyalty {
			loyal++
		}
	}
	if respondents[12].RespondentID != "Alberta_12" {
		t.Errorf("unexpected respondent id %q", respondents[12].RespondentID)
	}
	if loyal == 0 || loyal == len(respondents) {
		t.Errorf("expected a mix of loyalty members, got %d/%d", loyal, len(respondents))
	}
}

func TestFabricator_BasketInvariants(t *testing.T) {
	cfg := DefaultConfig()
	f := newTestFabricator(t, 99)
	respondents := f.Respondents("British Columbia", 200)
	promo := domain.PromoSpec{Region: "British Columbia", Selections: []domain.PromoSelection{
		{Item: "Chips", DiscountPct: 50},
		{Item: "Eggs", DiscountPct: 10},
	}}

	lines := f.Baskets("run-inv", domain.ScenarioTreated, respondents, promo)

	if err := domain.ValidateLines(lines); err != nil {
		t.Fatalf("ValidateLines failed: %v", err)
	}

	perTx := make(map[string]map[string]bool)
	for _, l := range lines {
		if l.Quantity < 1 || l.Quantity > cfg.MaxQuantity {
			t.Errorf("quantity %d out of range", l.Quantity)
		}
		if l.Loyalty == nil {
			t.Errorf("fabricated line without loyalty flag")
		}
		if perTx[l.TransactionID] == nil {
			perTx[l.TransactionID] = make(map[string]bool)
		}
		if perTx[l.TransactionID][l.Item] {
			t.Errorf("transaction %s repeats item %s", l.TransactionID, l.Item)
		}
		perTx[l.TransactionID][l.Item] = true
	}

	if len(perTx) != len(respondents) {
		t.Errorf("expected one transaction per respondent, got %d", len(perTx))
	}
	for tx, items := range perTx {
		if len(items) < cfg.MinItems || len(items) > cfg.MaxItems {
			t.Errorf("transaction %s has %d items", tx, len(items))
		}
	}
}

func TestFabricator_Pricing(t *testing.T) {
	f := newTestFabricator(t, 5)
	promo := domain.PromoSpec{Region: "Ontario", Selections: []domain.PromoSelection{{Item: "Milk", DiscountPct: 20}}}

	tests := []struct {
		name    string
		loyalty bool
	}{
		{"non-member", false},
		{"member", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := domain.Respondent{RespondentID: "Ontario_0", Region: "Ontario", Age: 30, IncomeBracket: "<40K", Loyalty: tt.loyalty}

			// Enough trips that every catalog item shows up.
			for trip := 0; trip < 50; trip++ {
				for _, l := range f.Basket("run-price", domain.ScenarioTreated, r, promo, trip) {
					product, ok := domain.FindProduct(domain.DefaultCatalog, l.Item)
					if !ok {
						t.Fatalf("unknown item %q", l.Item)
					}
					price := product.Price
					if tt.loyalty {
						price *= 0.9
					}
					price *= 1 - float64(promo.Discount(l.Item))/100
					if want := domain.RoundCents(price); l.UnitPrice != want {
						t.Errorf("%s: unit price %.2f, want %.2f", l.Item, l.UnitPrice, want)
					}
					if l.Category != product.Category {
						t.Errorf("%s: category %q, want %q", l.Item, l.Category, product.Category)
					}
				}
			}
		})
	}
}

func TestFabricator_BasketSharesTransactionFields(t *testing.T) {
	f := newTestFabricator(t, 11)
	r := f.Respondents("Quebec", 1)[0]

	lines := f.Basket("run-tx", domain.ScenarioBaseline, r, domain.PromoSpec{Region: "Quebec"}, 0)
	for _, l := range lines[1:] {
		if l.TransactionID != lines[0].TransactionID || l.Retailer != lines[0].Retailer {
			t.Errorf("lines of one trip diverge: %+v vs %+v", l, lines[0])
		}
		if l.Scenario != domain.ScenarioBaseline || l.RunID != "run-tx" {
			t.Errorf("run bookkeeping not set: %+v", l)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty catalog", func(c *Config) { c.Catalog = nil }},
		{"basket larger than catalog", func(c *Config) { c.MaxItems = len(c.Catalog) + 1 }},
		{"inverted basket size", func(c *Config) { c.MinItems, c.MaxItems = 5, 2 }},
		{"zero quantity", func(c *Config) { c.MaxQuantity = 0 }},
		{"inverted ages", func(c *Config) { c.MinAge, c.MaxAge = 60, 20 }},
		{"no retailers", func(c *Config) { c.Retailers = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if _, err := New(1, cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWeightedChoice(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	choices := []domain.Weighted{
		{Value: "never", Weight: 0},
		{Value: "rare", Weight: 0.1},
		{Value: "common", Weight: 0.9},
	}

	counts := make(map[string]int)
	for i := 0; i < 10000; i++ {
		counts[weightedChoice(rng, choices)]++
	}

	if counts["never"] != 0 {
		t.Errorf("zero-weight value picked %d times", counts["never"])
	}
	if counts["common"] < 8500 || counts["rare"] < 700 {
		t.Errorf("distribution skewed: %v", counts)
	}

	allZero := []domain.Weighted{{Value: "a"}, {Value: "b"}}
	if got := weightedChoice(rng, allZero); got != "a" {
		t.Errorf("expected first value for all-zero weights, got %q", got)
	}
}

func TestValidateLines_RejectsBrokenTotal(t *testing.T) {
	f := newTestFabricator(t, 8)
	lines := f.Baskets("run", domain.ScenarioBaseline, f.Respondents("Ontario", 3), domain.PromoSpec{Region: "Ontario"})
	lines[0].TotalPrice += 0.01

	if err := domain.ValidateLines(lines); !errors.Is(err, domain.ErrInvalidLine) {
		t.Errorf("expected ErrInvalidLine, got %v", err)
	}
}

package fabricator

import (
	"math/rand/v2"

	"retail-promo-lab/internal/domain"
)

// weightedChoice picks one value with probability proportional to its weight.
// Non-positive weights are never picked unless every weight is non-positive,
// in which case the first value is returned.
func weightedChoice(rng *rand.Rand, choices []domain.Weighted) string {
	var total float64
	for _, c := range choices {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	if total <= 0 {
		return choices[0].Value
	}

	target := rng.Float64() * total
	for _, c := range choices {
		if c.Weight <= 0 {
			continue
		}
		if target < c.Weight {
			return c.Value
		}
		target -= c.Weight
	}
	// Floating-point remainder lands on the last positive weight.
	for i := len(choices) - 1; i >= 0; i-- {
		if choices[i].Weight > 0 {
			return choices[i].Value
		}
	}
	return choices[0].Value
}

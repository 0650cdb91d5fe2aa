// Package association counts how often item pairs are bought together.
package association

import (
	"sort"

	"retail-promo-lab/internal/domain"
)

// DefaultLimit caps how many pairs TopPairs returns.
const DefaultLimit = 10

// TopPairs returns the most frequent co-purchased pairs, at most limit of
// them. A limit outside (0, DefaultLimit] means DefaultLimit.
func TopPairs(lines []*domain.BasketLine, limit int) []domain.PairCount {
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}
	counts := Count(lines)
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

// Count returns every co-purchased pair sorted by count descending.
// Each transaction counts a pair once regardless of quantities or repeated
// lines. Ties keep the order in which pairs were first seen, with
// transactions taken in order of first appearance.
func Count(lines []*domain.BasketLine) []domain.PairCount {
	baskets := distinctItemsByTransaction(lines)

	index := make(map[domain.ItemPair]int)
	var counts []domain.PairCount
	for _, items := range baskets {
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				pair := domain.NewItemPair(items[i], items[j])
				idx, ok := index[pair]
				if !ok {
					idx = len(counts)
					index[pair] = idx
					counts = append(counts, domain.PairCount{Pair: pair})
				}
				counts[idx].Count++
			}
		}
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// distinctItemsByTransaction groups lines by transaction_id and reduces each
// group to its distinct items, preserving first-appearance order.
func distinctItemsByTransaction(lines []*domain.BasketLine) [][]string {
	position := make(map[string]int)
	var baskets [][]string
	var seen []map[string]struct{}

	for _, l := range lines {
		idx, ok := position[l.TransactionID]
		if !ok {
			idx = len(baskets)
			position[l.TransactionID] = idx
			baskets = append(baskets, nil)
			seen = append(seen, make(map[string]struct{}))
		}
		if _, dup := seen[idx][l.Item]; dup {
			continue
		}
		seen[idx][l.Item] = struct{}{}
		baskets[idx] = append(baskets[idx], l.Item)
	}
	return baskets
}

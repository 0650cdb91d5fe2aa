package association

import (
	"fmt"
	"reflect"
	"testing"

	"retail-promo-lab/internal/domain"
)

// basket expands a transaction into one line per item.
func basket(txID string, items ...string) []*domain.BasketLine {
	lines := make([]*domain.BasketLine, len(items))
	for i, item := range items {
		lines[i] = &domain.BasketLine{
			TransactionID: txID,
			RespondentID:  "resp-" + txID,
			Region:        "Ontario",
			Item:          item,
			Quantity:      1,
			UnitPrice:     1,
			TotalPrice:    1,
		}
	}
	return lines
}

func baskets(groups ...[]*domain.BasketLine) []*domain.BasketLine {
	var out []*domain.BasketLine
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func toMap(counts []domain.PairCount) map[domain.ItemPair]int {
	m := make(map[domain.ItemPair]int, len(counts))
	for _, c := range counts {
		m[c.Pair] = c.Count
	}
	return m
}

func TestCount_ThreeItemTransaction(t *testing.T) {
	got := toMap(Count(basket("t1", "A", "B", "C")))

	want := map[domain.ItemPair]int{
		{A: "A", B: "B"}: 1,
		{A: "A", B: "C"}: 1,
		{A: "B", B: "C"}: 1,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Count() = %v, want %v", got, want)
	}
}

func TestCount_RepeatedTrips(t *testing.T) {
	lines := baskets(basket("t1", "A", "B"), basket("t2", "A", "B"))

	counts := Count(lines)
	if len(counts) != 1 {
		t.Fatalf("expected 1 pair, got %d: %+v", len(counts), counts)
	}
	if counts[0].Pair != (domain.ItemPair{A: "A", B: "B"}) || counts[0].Count != 2 {
		t.Errorf("expected (A,B):2, got %+v", counts[0])
	}
}

func TestCount_OrderIndependentKey(t *testing.T) {
	lines := baskets(basket("t1", "Milk", "Bread"), basket("t2", "Bread", "Milk"))

	counts := Count(lines)
	if len(counts) != 1 || counts[0].Count != 2 {
		t.Fatalf("expected a single pair counted twice, got %+v", counts)
	}
	if counts[0].Pair.A != "Bread" || counts[0].Pair.B != "Milk" {
		t.Errorf("pair not canonical: %+v", counts[0].Pair)
	}
}

func TestCount_DuplicateItemsCollapse(t *testing.T) {
	lines := basket("t1", "A", "A", "B", "A")

	counts := Count(lines)
	if len(counts) != 1 || counts[0].Count != 1 {
		t.Errorf("expected (A,B):1, got %+v", counts)
	}
}

func TestCount_SmallTransactions(t *testing.T) {
	tests := []struct {
		name  string
		lines []*domain.BasketLine
		want  int
	}{
		{"empty input", nil, 0},
		{"single item", basket("t1", "A"), 0},
		{"single distinct item repeated", basket("t1", "A", "A"), 0},
		{"exactly two distinct items", basket("t1", "A", "B"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Count(tt.lines)); got != tt.want {
				t.Errorf("expected %d pairs, got %d", tt.want, got)
			}
		})
	}
}

func TestCount_InterleavedLines(t *testing.T) {
	// Lines of the same transaction need not be contiguous.
	lines := []*domain.BasketLine{
		basket("t1", "A")[0],
		basket("t2", "C")[0],
		basket("t1", "B")[0],
		basket("t2", "D")[0],
	}

	got := toMap(Count(lines))
	want := map[domain.ItemPair]int{
		{A: "A", B: "B"}: 1,
		{A: "C", B: "D"}: 1,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Count() = %v, want %v", got, want)
	}
}

func TestTopPairs_SortedAndTruncated(t *testing.T) {
	// 8 items in one basket → 28 pairs, then boost a few.
	items := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	lines := basket("all", items...)
	lines = append(lines, basket("x1", "G", "H")...)
	lines = append(lines, basket("x2", "G", "H")...)
	lines = append(lines, basket("x3", "C", "E")...)

	top := TopPairs(lines, 0)

	if len(top) != DefaultLimit {
		t.Fatalf("expected %d pairs, got %d", DefaultLimit, len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].Count > top[i-1].Count {
			t.Errorf("not sorted descending at %d: %+v", i, top)
		}
	}
	if top[0].Pair != (domain.ItemPair{A: "G", B: "H"}) || top[0].Count != 3 {
		t.Errorf("expected (G,H):3 first, got %+v", top[0])
	}
	if top[1].Pair != (domain.ItemPair{A: "C", B: "E"}) || top[1].Count != 2 {
		t.Errorf("expected (C,E):2 second, got %+v", top[1])
	}
}

func TestTopPairs_Limit(t *testing.T) {
	lines := basket("t1", "A", "B", "C", "D") // 6 pairs

	if got := len(TopPairs(lines, 4)); got != 4 {
		t.Errorf("expected 4 pairs, got %d", got)
	}
	if got := len(TopPairs(lines, 50)); got != 6 {
		t.Errorf("expected 6 pairs, got %d", got)
	}
}

func TestTopPairs_LimitCappedAtDefault(t *testing.T) {
	lines := basket("all", "A", "B", "C", "D", "E", "F", "G", "H") // 28 pairs

	if got := len(Count(lines)); got != 28 {
		t.Fatalf("expected 28 pairs counted, got %d", got)
	}
	for _, limit := range []int{11, 50} {
		if got := len(TopPairs(lines, limit)); got != DefaultLimit {
			t.Errorf("TopPairs(limit=%d) returned %d pairs, want %d", limit, got, DefaultLimit)
		}
	}
}

func TestTopPairs_DeterministicTies(t *testing.T) {
	var lines []*domain.BasketLine
	for i := 0; i < 20; i++ {
		lines = append(lines, basket(fmt.Sprintf("t%d", i), fmt.Sprintf("I%02d", i), fmt.Sprintf("J%02d", i))...)
	}

	first := TopPairs(lines, 10)
	for run := 0; run < 5; run++ {
		again := TopPairs(lines, 10)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Run %d: tie order changed", run)
		}
	}
	// All counts tie at 1, so first-seen order wins.
	if first[0].Pair != (domain.ItemPair{A: "I00", B: "J00"}) {
		t.Errorf("expected first-seen pair first, got %+v", first[0])
	}
	if first[9].Pair != (domain.ItemPair{A: "I09", B: "J09"}) {
		t.Errorf("expected tenth-seen pair last, got %+v", first[9])
	}
}

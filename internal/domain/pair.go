package domain

// ItemPair is an unordered pair of item names stored with A <= B.
type ItemPair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// NewItemPair returns the canonical pair for x and y.
func NewItemPair(x, y string) ItemPair {
	if y < x {
		x, y = y, x
	}
	return ItemPair{A: x, B: y}
}

// PairCount is the number of transactions in which both items of Pair appear.
type PairCount struct {
	Pair  ItemPair `json:"pair"`
	Count int      `json:"count"`
}

// PairCountRecord is a pair count tagged with its run and region, as exported.
type PairCountRecord struct {
	RunID  string
	Region string
	Rank   int // 1-based position in the sorted top list
	PairCount
}

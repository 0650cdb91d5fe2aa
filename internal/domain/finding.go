package domain

// FindingKind classifies an insight finding.
type FindingKind string

const (
	FindingItemChange  FindingKind = "item_change"
	FindingRegionTotal FindingKind = "region_total"
	FindingLoyaltyGap  FindingKind = "loyalty_gap"
)

// Finding is one promo-impact observation for a region.
type Finding struct {
	Kind   FindingKind `json:"kind"`
	Region string      `json:"region"`

	// item_change
	Item          string  `json:"item,omitempty"`
	PromoPct      int     `json:"promo_pct"`
	PercentChange float64 `json:"percent_change"`

	// region_total: total spend; loyalty_gap: loyal mean minus non-loyal mean
	Amount float64 `json:"amount"`
}

// FindingRecord is a finding tagged with its run and position, as exported.
type FindingRecord struct {
	RunID   string
	Seq     int // position within the region's ordered findings
	Finding Finding
	Text    string
}

package domain

// Scenario identifies which side of a promo comparison a record set belongs to.
type Scenario string

const (
	// ScenarioBaseline is generated with no promo applied.
	ScenarioBaseline Scenario = "baseline"
	// ScenarioTreated is generated with the region's promo applied.
	ScenarioTreated Scenario = "treated"
)

// String returns the string representation of Scenario.
func (s Scenario) String() string {
	return string(s)
}

// IsValid checks if the scenario is a known value.
func (s Scenario) IsValid() bool {
	return s == ScenarioBaseline || s == ScenarioTreated
}

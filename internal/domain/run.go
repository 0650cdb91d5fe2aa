package domain

import "time"

// CampaignRun describes one fabrication + analysis run.
type CampaignRun struct {
	RunID                string      `json:"run_id"`
	Seed                 uint64      `json:"seed"`
	RespondentsPerRegion int         `json:"respondents_per_region"`
	Promos               []PromoSpec `json:"promos"` // one per simulated region, in display order
	StartedAt            time.Time   `json:"started_at"`
}

// Regions returns the simulated regions in display order.
func (r *CampaignRun) Regions() []string {
	regions := make([]string, len(r.Promos))
	for i, p := range r.Promos {
		regions[i] = p.Region
	}
	return regions
}

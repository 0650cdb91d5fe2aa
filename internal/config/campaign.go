// Package config loads campaign definitions and server settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"retail-promo-lab/internal/domain"
)

// ErrInvalidConfig is returned when a campaign or server config fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Campaign defaults and bounds.
const (
	DefaultSeed                 uint64 = 1
	DefaultRespondentsPerRegion        = 300
	MinRespondentsPerRegion            = 100
	MaxRespondentsPerRegion            = 1000
)

// DefaultRegionCount is how many catalog regions a campaign without regions simulates.
const DefaultRegionCount = 2

// Campaign is the user-facing definition of one campaign run.
type Campaign struct {
	Seed                 *uint64        `yaml:"seed" json:"seed,omitempty"`
	RespondentsPerRegion int            `yaml:"respondents_per_region" json:"respondents_per_region,omitempty"`
	Regions              []RegionPromos `yaml:"regions" json:"regions,omitempty"`
}

// RegionPromos lists the discounted items of one region.
type RegionPromos struct {
	Region string                  `yaml:"region" json:"region"`
	Promos []domain.PromoSelection `yaml:"promos" json:"promos,omitempty"`
}

// LoadCampaign reads, defaults and validates a YAML campaign file.
func LoadCampaign(path string) (*Campaign, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open campaign config: %w", err)
	}
	defer f.Close()

	return ParseCampaign(f)
}

// ParseCampaign decodes YAML from r, applies defaults and validates.
// Unknown keys are rejected.
func ParseCampaign(r io.Reader) (*Campaign, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read campaign config: %w", err)
	}

	var c Campaign
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %v", ErrInvalidConfig, err)
		}
	}

	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// ApplyDefaults fills unset fields.
func (c *Campaign) ApplyDefaults() {
	if c.Seed == nil {
		seed := DefaultSeed
		c.Seed = &seed
	}
	if c.RespondentsPerRegion == 0 {
		c.RespondentsPerRegion = DefaultRespondentsPerRegion
	}
	if len(c.Regions) == 0 {
		for _, region := range domain.Regions[:DefaultRegionCount] {
			c.Regions = append(c.Regions, RegionPromos{Region: region})
		}
	}
}

// Validate checks bounds, regions and promo selections.
func (c *Campaign) Validate() error {
	if c.RespondentsPerRegion < MinRespondentsPerRegion || c.RespondentsPerRegion > MaxRespondentsPerRegion {
		return fmt.Errorf("%w: respondents_per_region %d outside [%d, %d]",
			ErrInvalidConfig, c.RespondentsPerRegion, MinRespondentsPerRegion, MaxRespondentsPerRegion)
	}

	seen := make(map[string]struct{}, len(c.Regions))
	for _, rp := range c.Regions {
		if !domain.IsKnownRegion(rp.Region) {
			return fmt.Errorf("%w: unknown region %q", ErrInvalidConfig, rp.Region)
		}
		if _, dup := seen[rp.Region]; dup {
			return fmt.Errorf("%w: duplicate region %q", ErrInvalidConfig, rp.Region)
		}
		seen[rp.Region] = struct{}{}

		for _, sel := range rp.Promos {
			if _, ok := domain.FindProduct(domain.DefaultCatalog, sel.Item); !ok {
				return fmt.Errorf("%w: %s: unknown item %q", ErrInvalidConfig, rp.Region, sel.Item)
			}
		}
		spec := domain.PromoSpec{Region: rp.Region, Selections: rp.Promos}
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// SeedValue returns the configured seed, or the default when unset.
func (c *Campaign) SeedValue() uint64 {
	if c.Seed == nil {
		return DefaultSeed
	}
	return *c.Seed
}

// PromoSpecs converts the regions to promo specs in file order.
func (c *Campaign) PromoSpecs() []domain.PromoSpec {
	specs := make([]domain.PromoSpec, len(c.Regions))
	for i, rp := range c.Regions {
		specs[i] = domain.PromoSpec{
			Region:     rp.Region,
			Selections: append([]domain.PromoSelection(nil), rp.Promos...),
		}
	}
	return specs
}

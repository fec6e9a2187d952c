package maintenance

import (
	"fmt"

	"github.com/nmonzon/carmind/core/model"
)

// Interval defines how often a maintenance kind is due. A zero value on one
// axis means that axis never applies to the kind; at least one axis must be
// set.
type Interval struct {
	// DistanceKm is the distance interval in kilometers.
	DistanceKm int64 `json:"distance_km"`
	// Months is the calendar interval in months.
	Months int `json:"months"`
}

// Validate checks that at least one axis is configured and none is negative.
func (i Interval) Validate() error {
	if i.DistanceKm < 0 || i.Months < 0 {
		return fmt.Errorf("intervals must not be negative")
	}
	if i.DistanceKm == 0 && i.Months == 0 {
		return fmt.Errorf("at least one of distance_km or months must be set")
	}
	return nil
}

// Policy maps each maintenance kind to its interval. It is immutable,
// process-wide configuration shared by every vehicle.
type Policy map[model.Kind]Interval

// Validate checks every entry of the policy.
func (p Policy) Validate() error {
	for k, iv := range p {
		if !k.Valid() {
			return fmt.Errorf("unknown maintenance kind %q", k)
		}
		if err := iv.Validate(); err != nil {
			return fmt.Errorf("kind %s: %w", k, err)
		}
	}
	return nil
}

// DefaultPolicy returns the factory intervals applied when the configuration
// is silent.
func DefaultPolicy() Policy {
	return Policy{
		model.KindOilChange:           {DistanceKm: 10000, Months: 12},
		model.KindAirFilter:           {DistanceKm: 20000, Months: 24},
		model.KindFuelFilter:          {DistanceKm: 20000, Months: 24},
		model.KindCabinFilter:         {DistanceKm: 20000, Months: 24},
		model.KindTireService:         {DistanceKm: 10000},
		model.KindTimingBelt:          {DistanceKm: 50000},
		model.KindTechnicalInspection: {Months: 12},
	}
}

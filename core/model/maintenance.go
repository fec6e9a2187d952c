package model

import (
	"fmt"
	"time"
)

// Kind identifies a maintenance category tracked per vehicle.
type Kind string

const (
	KindOilChange           Kind = "oilChange"
	KindAirFilter           Kind = "airFilter"
	KindFuelFilter          Kind = "fuelFilter"
	KindCabinFilter         Kind = "cabinFilter"
	KindTireService         Kind = "tireService"
	KindTimingBelt          Kind = "timingBelt"
	KindTechnicalInspection Kind = "technicalInspection"
)

// Kinds returns all maintenance kinds in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindOilChange,
		KindAirFilter,
		KindFuelFilter,
		KindCabinFilter,
		KindTireService,
		KindTimingBelt,
		KindTechnicalInspection,
	}
}

// Valid reports whether k is a known maintenance kind.
func (k Kind) Valid() bool {
	switch k {
	case KindOilChange, KindAirFilter, KindFuelFilter, KindCabinFilter,
		KindTireService, KindTimingBelt, KindTechnicalInspection:
		return true
	}
	return false
}

// Label returns a human readable name for the kind.
func (k Kind) Label() string {
	switch k {
	case KindOilChange:
		return "Oil Change"
	case KindAirFilter:
		return "Air Filter"
	case KindFuelFilter:
		return "Fuel Filter"
	case KindCabinFilter:
		return "Cabin Filter"
	case KindTireService:
		return "Tire Service"
	case KindTimingBelt:
		return "Timing Belt"
	case KindTechnicalInspection:
		return "Technical Inspection"
	}
	return string(k)
}

// TireServiceType distinguishes a plain rotation from a full replacement.
type TireServiceType string

const (
	TireRotation    TireServiceType = "rotation"
	TireReplacement TireServiceType = "replacement"
)

// OilChangeDetails holds the payload specific to oil change records.
type OilChangeDetails struct {
	OilBrand    string  `json:"oil_brand"`
	OilLiters   float64 `json:"oil_liters"`
	FilterBrand string  `json:"filter_brand,omitempty"`
	FilterModel string  `json:"filter_model,omitempty"`
}

// FilterChangeDetails holds the payload for air, fuel and cabin filter records.
type FilterChangeDetails struct {
	FilterBrand string `json:"filter_brand"`
	FilterModel string `json:"filter_model,omitempty"`
}

// TireServiceDetails holds the payload for tire service records.
type TireServiceDetails struct {
	ServiceType TireServiceType `json:"service_type"`
}

// TimingBeltDetails holds the payload for timing belt replacement records.
type TimingBeltDetails struct {
	Brand string `json:"brand"`
	Model string `json:"model,omitempty"`
}

// InspectionDetails holds the payload for technical inspection records.
type InspectionDetails struct {
	Place  string `json:"place,omitempty"`
	Passed bool   `json:"passed"`
}

// MaintenanceRecord is one performed service. The record is a closed tagged
// union: Kind selects which of the detail pointers is populated. Exactly one
// detail payload matching the kind must be set.
type MaintenanceRecord struct {
	ID                string    `json:"id"`
	VehicleID         string    `json:"vehicle_id"`
	Kind              Kind      `json:"kind"`
	ServiceDate       time.Time `json:"service_date"`
	DistanceAtService int64     `json:"distance_at_service"`

	// NextDueDistance and NextDueDate are the projections computed from the
	// interval policy when the record is stored. Zero values mean the axis
	// does not apply to this kind.
	NextDueDistance int64     `json:"next_due_distance,omitempty"`
	NextDueDate     time.Time `json:"next_due_date,omitempty"`

	Notes string `json:"notes,omitempty"`

	Oil        *OilChangeDetails    `json:"oil,omitempty"`
	Filter     *FilterChangeDetails `json:"filter,omitempty"`
	Tire       *TireServiceDetails  `json:"tire,omitempty"`
	Belt       *TimingBeltDetails   `json:"belt,omitempty"`
	Inspection *InspectionDetails   `json:"inspection,omitempty"`
}

// Validate checks the common header and that the detail payload matches Kind.
func (r MaintenanceRecord) Validate() error {
	if r.VehicleID == "" {
		return fmt.Errorf("vehicle id must not be empty")
	}
	if !r.Kind.Valid() {
		return fmt.Errorf("unknown maintenance kind %q", r.Kind)
	}
	if r.ServiceDate.IsZero() {
		return fmt.Errorf("service date must be set")
	}
	if r.DistanceAtService < 0 {
		return fmt.Errorf("distance at service must not be negative")
	}
	return r.validatePayload()
}

func (r MaintenanceRecord) validatePayload() error {
	set := 0
	if r.Oil != nil {
		set++
	}
	if r.Filter != nil {
		set++
	}
	if r.Tire != nil {
		set++
	}
	if r.Belt != nil {
		set++
	}
	if r.Inspection != nil {
		set++
	}
	if set > 1 {
		return fmt.Errorf("record carries %d detail payloads, want at most one", set)
	}
	switch r.Kind {
	case KindOilChange:
		if set == 1 && r.Oil == nil {
			return fmt.Errorf("detail payload does not match kind %q", r.Kind)
		}
	case KindAirFilter, KindFuelFilter, KindCabinFilter:
		if set == 1 && r.Filter == nil {
			return fmt.Errorf("detail payload does not match kind %q", r.Kind)
		}
	case KindTireService:
		if set == 1 && r.Tire == nil {
			return fmt.Errorf("detail payload does not match kind %q", r.Kind)
		}
		if r.Tire != nil && r.Tire.ServiceType != TireRotation && r.Tire.ServiceType != TireReplacement {
			return fmt.Errorf("unknown tire service type %q", r.Tire.ServiceType)
		}
	case KindTimingBelt:
		if set == 1 && r.Belt == nil {
			return fmt.Errorf("detail payload does not match kind %q", r.Kind)
		}
	case KindTechnicalInspection:
		if set == 1 && r.Inspection == nil {
			return fmt.Errorf("detail payload does not match kind %q", r.Kind)
		}
	}
	return nil
}

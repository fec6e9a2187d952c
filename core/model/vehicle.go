package model

import (
	"fmt"
	"time"
)

// FuelType identifies the fuel a vehicle runs on.
type FuelType string

const (
	FuelGasoline FuelType = "gasoline"
	FuelDiesel   FuelType = "diesel"
)

// Valid reports whether the fuel type is one of the known values.
func (f FuelType) Valid() bool {
	return f == FuelGasoline || f == FuelDiesel
}

// Vehicle represents one tracked vehicle owned by a single account.
type Vehicle struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Brand   string `json:"brand"`
	Model   string `json:"model"`
	Year    int    `json:"year"`

	// CurrentDistance is the last reported odometer reading in km. It is
	// expected to be non-decreasing under normal use; the scheduler relies
	// on that when comparing it to due thresholds.
	CurrentDistance int64 `json:"current_distance"`

	FuelType     FuelType  `json:"fuel_type"`
	LicensePlate string    `json:"license_plate,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks that the vehicle record is structurally sound.
func (v Vehicle) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("vehicle id must not be empty")
	}
	if v.OwnerID == "" {
		return fmt.Errorf("owner id must not be empty")
	}
	if !v.FuelType.Valid() {
		return fmt.Errorf("unknown fuel type %q", v.FuelType)
	}
	return nil
}

package model

import (
	"testing"
	"time"
)

func TestMaintenanceRecordValidate(t *testing.T) {
	base := MaintenanceRecord{
		VehicleID:         "v1",
		Kind:              KindOilChange,
		ServiceDate:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DistanceAtService: 50000,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("header-only record should validate: %v", err)
	}

	withOil := base
	withOil.Oil = &OilChangeDetails{OilBrand: "Shell", OilLiters: 4.5}
	if err := withOil.Validate(); err != nil {
		t.Fatalf("oil payload on oilChange: %v", err)
	}

	mismatch := base
	mismatch.Inspection = &InspectionDetails{Passed: true}
	if err := mismatch.Validate(); err == nil {
		t.Fatalf("inspection payload on oilChange should be rejected")
	}

	double := withOil
	double.Tire = &TireServiceDetails{ServiceType: TireRotation}
	if err := double.Validate(); err == nil {
		t.Fatalf("two payloads should be rejected")
	}

	badTire := MaintenanceRecord{
		VehicleID:         "v1",
		Kind:              KindTireService,
		ServiceDate:       base.ServiceDate,
		DistanceAtService: 10,
		Tire:              &TireServiceDetails{ServiceType: "balancing"},
	}
	if err := badTire.Validate(); err == nil {
		t.Fatalf("unknown tire service type should be rejected")
	}
}

func TestMaintenanceRecordValidateHeader(t *testing.T) {
	cases := []struct {
		name string
		rec  MaintenanceRecord
	}{
		{"missing vehicle", MaintenanceRecord{Kind: KindOilChange, ServiceDate: time.Now()}},
		{"bad kind", MaintenanceRecord{VehicleID: "v1", Kind: "wiperBlades", ServiceDate: time.Now()}},
		{"zero date", MaintenanceRecord{VehicleID: "v1", Kind: KindOilChange}},
		{"negative distance", MaintenanceRecord{VehicleID: "v1", Kind: KindOilChange, ServiceDate: time.Now(), DistanceAtService: -1}},
	}
	for _, c := range cases {
		if err := c.rec.Validate(); err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestKindLabel(t *testing.T) {
	if got := KindTechnicalInspection.Label(); got != "Technical Inspection" {
		t.Fatalf("label: %s", got)
	}
	if len(Kinds()) != 7 {
		t.Fatalf("expected 7 kinds")
	}
	for _, k := range Kinds() {
		if !k.Valid() {
			t.Errorf("kind %s should be valid", k)
		}
	}
}

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nmonzon/carmind/core/model"
)

var recordFlags struct {
	vehicleID string
	kind      string
	date      string
	distance  int64
	notes     string

	oilBrand    string
	oilLiters   float64
	filterBrand string
	filterModel string
	tireType    string
	beltBrand   string
	beltModel   string
	place       string
	passed      bool
}

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Maintenance service commands",
}

var serviceRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a performed maintenance service",
	RunE:  runServiceRecord,
}

func init() {
	f := serviceRecordCmd.Flags()
	f.StringVar(&recordFlags.vehicleID, "vehicle", "", "vehicle id")
	f.StringVar(&recordFlags.kind, "kind", "", "maintenance kind")
	f.StringVar(&recordFlags.date, "date", "", "service date (YYYY-MM-DD, default today)")
	f.Int64Var(&recordFlags.distance, "distance", 0, "odometer at service in km")
	f.StringVar(&recordFlags.notes, "notes", "", "free form notes")

	f.StringVar(&recordFlags.oilBrand, "oil-brand", "", "oil brand (oilChange)")
	f.Float64Var(&recordFlags.oilLiters, "oil-liters", 0, "oil quantity in liters (oilChange)")
	f.StringVar(&recordFlags.filterBrand, "filter-brand", "", "filter brand (filter kinds, oilChange)")
	f.StringVar(&recordFlags.filterModel, "filter-model", "", "filter model (filter kinds, oilChange)")
	f.StringVar(&recordFlags.tireType, "tire-type", "", "rotation or replacement (tireService)")
	f.StringVar(&recordFlags.beltBrand, "belt-brand", "", "belt brand (timingBelt)")
	f.StringVar(&recordFlags.beltModel, "belt-model", "", "belt model (timingBelt)")
	f.StringVar(&recordFlags.place, "place", "", "inspection place (technicalInspection)")
	f.BoolVar(&recordFlags.passed, "passed", true, "inspection passed (technicalInspection)")

	serviceCmd.AddCommand(serviceRecordCmd)
	rootCmd.AddCommand(serviceCmd)
}

func runServiceRecord(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	date := time.Now().UTC().Truncate(24 * time.Hour)
	if recordFlags.date != "" {
		date, err = time.Parse("2006-01-02", recordFlags.date)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", recordFlags.date, err)
		}
	}
	rec := model.MaintenanceRecord{
		VehicleID:         recordFlags.vehicleID,
		Kind:              model.Kind(recordFlags.kind),
		ServiceDate:       date,
		DistanceAtService: recordFlags.distance,
		Notes:             recordFlags.notes,
	}
	attachDetails(&rec)

	stored, err := svc.RecordService(context.Background(), rec)
	if err != nil {
		return err
	}
	fmt.Printf("recorded %s %s\n", stored.Kind.Label(), stored.ID)
	if stored.NextDueDistance > 0 {
		fmt.Printf("next due at %d km\n", stored.NextDueDistance)
	}
	if !stored.NextDueDate.IsZero() {
		fmt.Printf("next due on %s\n", stored.NextDueDate.Format("2006-01-02"))
	}
	return nil
}

func attachDetails(rec *model.MaintenanceRecord) {
	switch rec.Kind {
	case model.KindOilChange:
		if recordFlags.oilBrand != "" || recordFlags.oilLiters > 0 {
			rec.Oil = &model.OilChangeDetails{
				OilBrand:    recordFlags.oilBrand,
				OilLiters:   recordFlags.oilLiters,
				FilterBrand: recordFlags.filterBrand,
				FilterModel: recordFlags.filterModel,
			}
		}
	case model.KindAirFilter, model.KindFuelFilter, model.KindCabinFilter:
		if recordFlags.filterBrand != "" {
			rec.Filter = &model.FilterChangeDetails{
				FilterBrand: recordFlags.filterBrand,
				FilterModel: recordFlags.filterModel,
			}
		}
	case model.KindTireService:
		if recordFlags.tireType != "" {
			rec.Tire = &model.TireServiceDetails{ServiceType: model.TireServiceType(recordFlags.tireType)}
		}
	case model.KindTimingBelt:
		if recordFlags.beltBrand != "" {
			rec.Belt = &model.TimingBeltDetails{Brand: recordFlags.beltBrand, Model: recordFlags.beltModel}
		}
	case model.KindTechnicalInspection:
		rec.Inspection = &model.InspectionDetails{Place: recordFlags.place, Passed: recordFlags.passed}
	}
}

package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nmonzon/carmind/core/model"
	"github.com/nmonzon/carmind/core/vehicle"
)

var vehicleCmd = &cobra.Command{
	Use:   "vehicle",
	Short: "Vehicle related commands",
}

var addFlags struct {
	brand    string
	model    string
	year     int
	distance int64
	fuel     string
	plate    string
}

var vehicleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new vehicle",
	RunE:  runVehicleAdd,
}

var vehicleLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List registered vehicles",
	RunE:  runVehicleLs,
}

var vehicleRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a vehicle and its maintenance history",
	Args:  cobra.ExactArgs(1),
	RunE:  runVehicleRm,
}

var vehicleOdometerCmd = &cobra.Command{
	Use:   "odometer <id> <km>",
	Short: "Record a new odometer reading",
	Args:  cobra.ExactArgs(2),
	RunE:  runVehicleOdometer,
}

func init() {
	vehicleAddCmd.Flags().StringVar(&addFlags.brand, "brand", "", "vehicle brand")
	vehicleAddCmd.Flags().StringVar(&addFlags.model, "model", "", "vehicle model")
	vehicleAddCmd.Flags().IntVar(&addFlags.year, "year", 0, "model year")
	vehicleAddCmd.Flags().Int64Var(&addFlags.distance, "distance", 0, "current odometer in km")
	vehicleAddCmd.Flags().StringVar(&addFlags.fuel, "fuel", "gasoline", "fuel type (gasoline|diesel)")
	vehicleAddCmd.Flags().StringVar(&addFlags.plate, "plate", "", "license plate")

	vehicleCmd.AddCommand(vehicleAddCmd, vehicleLsCmd, vehicleRmCmd, vehicleOdometerCmd)
	rootCmd.AddCommand(vehicleCmd)
}

func runVehicleAdd(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	in := vehicle.Input{
		Brand:           addFlags.brand,
		Model:           addFlags.model,
		Year:            addFlags.year,
		CurrentDistance: addFlags.distance,
		FuelType:        model.FuelType(addFlags.fuel),
		LicensePlate:    addFlags.plate,
	}
	v, err := svc.CreateVehicle(context.Background(), in)
	if err != nil {
		return err
	}
	fmt.Println(v.ID)
	return nil
}

func runVehicleLs(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	vehicles, err := svc.Vehicles.LoadAll(context.Background(), svc.OwnerID())
	if err != nil {
		return err
	}
	for _, v := range vehicles {
		fmt.Printf("%s\t%s %s (%d)\t%d km\t%s\n", v.ID, v.Brand, v.Model, v.Year, v.CurrentDistance, v.FuelType)
	}
	return nil
}

func runVehicleRm(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	return svc.DeleteVehicle(context.Background(), args[0])
}

func runVehicleOdometer(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	km, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid distance %q: %w", args[1], err)
	}
	v, err := svc.UpdateOdometer(context.Background(), args[0], km)
	if err != nil {
		return err
	}
	fmt.Printf("%s now at %d km\n", v.ID, v.CurrentDistance)
	return nil
}

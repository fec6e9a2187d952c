package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var alertsVehicleID string

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show upcoming and overdue maintenance",
	RunE:  runAlerts,
}

func init() {
	alertsCmd.Flags().StringVar(&alertsVehicleID, "vehicle", "", "limit to one vehicle id")
	rootCmd.AddCommand(alertsCmd)
}

func runAlerts(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	alerts, err := svc.Alerts(context.Background(), alertsVehicleID)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		fmt.Println("no maintenance due")
		return nil
	}
	for _, a := range alerts {
		state := "upcoming"
		if a.Overdue {
			state = "OVERDUE"
		}
		line := fmt.Sprintf("%s\t%s\t%s\t%s", a.VehicleID, a.Kind.Label(), a.Priority, state)
		if a.DueDistance > 0 {
			line += fmt.Sprintf("\tdue at %d km", a.DueDistance)
		}
		if !a.DueDate.IsZero() {
			line += fmt.Sprintf("\tdue on %s", a.DueDate.Format("2006-01-02"))
		}
		fmt.Println(line)
	}
	return nil
}

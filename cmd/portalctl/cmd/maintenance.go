package cmd

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/atlasbahamas/portal-client/pkg/portal"
)

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Create and track maintenance requests",
}

var maintenanceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List maintenance requests visible to your role",
	RunE: func(cmd *cobra.Command, args []string) error {
		requests, err := client.FetchMaintenanceRequests(cmd.Context())
		if err != nil {
			return err
		}
		if len(requests) == 0 {
			pterm.Info.Println("No maintenance requests.")
			return nil
		}
		printMaintenance("Maintenance requests", requests)
		return nil
	},
}

var (
	maintenanceSubject  string
	maintenanceDetails  string
	maintenanceSeverity string
)

var maintenanceCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a maintenance request (tenant)",
	RunE: func(cmd *cobra.Command, args []string) error {
		request, err := client.CreateMaintenanceRequest(cmd.Context(), portal.MaintenanceInput{
			Subject:  maintenanceSubject,
			Details:  maintenanceDetails,
			Severity: maintenanceSeverity,
		})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Request #%d opened: %s (%s)\n", request.ID, request.Subject, request.Severity)
		return nil
	},
}

var maintenanceNewStatus string

var maintenanceStatusCmd = &cobra.Command{
	Use:   "status <request-id>",
	Short: "Move a maintenance request to a new status (landlord)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("request id must be a number, got %q", args[0])
		}

		request, err := client.UpdateMaintenanceStatus(cmd.Context(), id, maintenanceNewStatus)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Request #%d is now %s\n", request.ID, request.Status)
		return nil
	},
}

func init() {
	maintenanceCreateCmd.Flags().StringVar(&maintenanceSubject, "subject", "", "Short summary (3-140 characters)")
	maintenanceCreateCmd.Flags().StringVar(&maintenanceDetails, "details", "", "Full description (5-2000 characters)")
	maintenanceCreateCmd.Flags().StringVar(&maintenanceSeverity, "severity", "medium", "Severity: low, medium, high, or urgent")
	for _, flag := range []string{"subject", "details"} {
		if err := maintenanceCreateCmd.MarkFlagRequired(flag); err != nil {
			panic(fmt.Sprintf("mark maintenance flag required: %v", err))
		}
	}

	maintenanceStatusCmd.Flags().StringVar(&maintenanceNewStatus, "status", "", "New status: open, in_progress, resolved, or closed")
	if err := maintenanceStatusCmd.MarkFlagRequired("status"); err != nil {
		panic(fmt.Sprintf("mark maintenance flag required: %v", err))
	}

	maintenanceCmd.AddCommand(maintenanceListCmd)
	maintenanceCmd.AddCommand(maintenanceCreateCmd)
	maintenanceCmd.AddCommand(maintenanceStatusCmd)
}

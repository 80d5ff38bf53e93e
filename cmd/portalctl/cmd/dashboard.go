package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/atlasbahamas/portal-client/pkg/portal"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard [role]",
	Short: "Show the dashboard for your role",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := ""
		if len(args) == 1 {
			role = args[0]
		}
		if role == "" {
			if session := client.GetSession(cmd.Context(), false); session != nil {
				role = session.Role
			}
		}

		check := client.RequireRole(cmd.Context(), role)
		if !check.OK {
			if check.Reason == portal.ReasonUnauthenticated {
				return fmt.Errorf("not logged in; run `portalctl auth login` first")
			}
			return fmt.Errorf("the %s dashboard is not available to your role", portal.NormalizeRole(role))
		}

		dash, err := client.FetchDashboard(cmd.Context(), role)
		if err != nil {
			return err
		}

		pterm.DefaultSection.Println("Dashboard")
		if portal.NormalizeRole(role) == portal.RoleLandlord {
			pterm.Info.Printf("Properties: %d  Occupied: %d  Monthly revenue: $%.2f  Open requests: %d\n",
				dash.KPIs.Properties, dash.KPIs.Occupied, dash.KPIs.MonthlyRevenue, dash.KPIs.OpenRequests)
			printPayments("Pending payments", dash.PendingPayments)
			printMaintenance("Maintenance queue", dash.MaintenanceQueue)
			return nil
		}

		pterm.Info.Printf("Rent due: $%.2f  Days to due: %d  Open requests: %d  Receipts: %d\n",
			dash.KPIs.RentDue, dash.KPIs.DaysToDue, dash.KPIs.OpenRequests, dash.KPIs.Receipts)
		printPayments("Payments", dash.Payments)
		printMaintenance("Maintenance", dash.Maintenance)
		return nil
	},
}

func printPayments(title string, payments []portal.Payment) {
	if len(payments) == 0 {
		return
	}
	pterm.DefaultSection.Println(title)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTENANT\tMONTH\tAMOUNT\tSTATUS\tNOTE")
	for _, p := range payments {
		fmt.Fprintf(w, "%d\t%s\t%s\t$%.2f\t%s\t%s\n", p.ID, p.TenantUsername, p.PaymentMonth, p.Amount, p.Status, p.Note)
	}
	w.Flush()
}

func printMaintenance(title string, requests []portal.MaintenanceRequest) {
	if len(requests) == 0 {
		return
	}
	pterm.DefaultSection.Println(title)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTENANT\tSUBJECT\tSEVERITY\tSTATUS")
	for _, m := range requests {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", m.ID, m.TenantUsername, m.Subject, m.Severity, m.Status)
	}
	w.Flush()
}

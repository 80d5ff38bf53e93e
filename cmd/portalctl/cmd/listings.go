package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "Browse public rental listings",
	RunE: func(cmd *cobra.Command, args []string) error {
		listings, err := client.FetchListings(cmd.Context())
		if err != nil {
			return err
		}
		if len(listings) == 0 {
			pterm.Info.Println("No listings available.")
			return nil
		}

		pterm.DefaultSection.Println("Listings")
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tBEDS\tBATHS\tCITY\tMONTHLY")
		for _, l := range listings {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t$%.2f\n", l.ID, l.Name, l.Beds, l.Baths, l.City, l.PriceMonthly)
		}
		return w.Flush()
	},
}

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/atlasbahamas/portal-client/pkg/portal"
)

var (
	contactName    string
	contactEmail   string
	contactMessage string
)

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send a message to the property office",
	RunE: func(cmd *cobra.Command, args []string) error {
		message, err := client.SaveContact(cmd.Context(), portal.ContactInput{
			Name:    contactName,
			Email:   contactEmail,
			Message: contactMessage,
		})
		if err != nil {
			return err
		}
		pterm.Success.Println(message)
		return nil
	},
}

func init() {
	contactCmd.Flags().StringVar(&contactName, "name", "", "Your name")
	contactCmd.Flags().StringVar(&contactEmail, "email", "", "Your email address")
	contactCmd.Flags().StringVar(&contactMessage, "message", "", "Message body")
	for _, flag := range []string{"name", "email", "message"} {
		if err := contactCmd.MarkFlagRequired(flag); err != nil {
			panic(fmt.Sprintf("mark contact flag required: %v", err))
		}
	}
}

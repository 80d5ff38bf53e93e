package cmd

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/atlasbahamas/portal-client/pkg/portal"
)

var paymentsCmd = &cobra.Command{
	Use:   "payments",
	Short: "Submit and review rent payments",
}

var paymentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List payments visible to your role",
	RunE: func(cmd *cobra.Command, args []string) error {
		payments, err := client.FetchPayments(cmd.Context())
		if err != nil {
			return err
		}
		if len(payments) == 0 {
			pterm.Info.Println("No payments recorded.")
			return nil
		}
		printPayments("Payments", payments)
		return nil
	},
}

var (
	paymentAmount float64
	paymentMonth  string
	paymentNote   string
)

var paymentsSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a rent payment (tenant)",
	RunE: func(cmd *cobra.Command, args []string) error {
		payment, err := client.SubmitPayment(cmd.Context(), portal.PaymentInput{
			Amount:       paymentAmount,
			PaymentMonth: paymentMonth,
			Note:         paymentNote,
		})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Payment #%d submitted: $%.2f for %s\n", payment.ID, payment.Amount, payment.PaymentMonth)
		return nil
	},
}

var (
	reviewStatus string
	reviewNote   string
)

var paymentsReviewCmd = &cobra.Command{
	Use:   "review <payment-id>",
	Short: "Mark a payment received or rejected (landlord)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("payment id must be a number, got %q", args[0])
		}

		payment, err := client.ReviewPayment(cmd.Context(), id, reviewStatus, reviewNote)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Payment #%d is now %s\n", payment.ID, payment.Status)
		return nil
	},
}

func init() {
	paymentsSubmitCmd.Flags().Float64Var(&paymentAmount, "amount", 0, "Payment amount in dollars")
	paymentsSubmitCmd.Flags().StringVar(&paymentMonth, "month", "", "Payment month as YYYY-MM (defaults to the current month)")
	paymentsSubmitCmd.Flags().StringVar(&paymentNote, "note", "", "Optional note")
	if err := paymentsSubmitCmd.MarkFlagRequired("amount"); err != nil {
		panic(fmt.Sprintf("mark payment flag required: %v", err))
	}

	paymentsReviewCmd.Flags().StringVar(&reviewStatus, "status", portal.PaymentStatusReceived, "New status: received or rejected")
	paymentsReviewCmd.Flags().StringVar(&reviewNote, "note", "", "Optional reviewer note")

	paymentsCmd.AddCommand(paymentsListCmd)
	paymentsCmd.AddCommand(paymentsSubmitCmd)
	paymentsCmd.AddCommand(paymentsReviewCmd)
}

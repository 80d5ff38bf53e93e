package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/atlasbahamas/portal-client/pkg/portal"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the portal session",
}

var (
	loginIdentifier string
	loginPassword   string
	loginRole       string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with username or email",
	RunE: func(cmd *cobra.Command, args []string) error {
		password := loginPassword
		if password == "" {
			var err error
			password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
			if err != nil {
				return err
			}
		}

		res, err := client.Login(cmd.Context(), portal.LoginInput{
			Identifier: loginIdentifier,
			Password:   password,
			Role:       loginRole,
		})
		if err != nil {
			return err
		}

		pterm.Success.Printf("Logged in as %s (%s)\n", res.Session.FullName, res.Session.Role)
		pterm.Info.Printf("Home page: %s\n", portal.RoleHome(res.Session.Role))
		return nil
	},
}

var (
	registerFullName string
	registerEmail    string
	registerUsername string
	registerRole     string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a portal account",
	RunE: func(cmd *cobra.Command, args []string) error {
		password := registerPassword
		if password == "" {
			var err error
			password, err = pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
			if err != nil {
				return err
			}
		}

		res, err := client.Register(cmd.Context(), portal.RegisterInput{
			FullName:        registerFullName,
			Email:           registerEmail,
			Username:        registerUsername,
			Role:            registerRole,
			Password:        password,
			PasswordConfirm: password,
		})
		if err != nil {
			return err
		}

		pterm.Success.Printf("Account created for %s (%s)\n", res.Session.Username, res.Session.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		client.Logout(cmd.Context())
		if err := store.Clear(); err != nil {
			return err
		}
		pterm.Success.Println("Logged out.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is logged in",
	RunE: func(cmd *cobra.Command, args []string) error {
		session := client.GetSession(cmd.Context(), true)
		if session == nil {
			pterm.Warning.Println("Not logged in.")
			return nil
		}

		pterm.DefaultSection.Println("Session")
		pterm.Info.Printf("Name:     %s\n", session.FullName)
		pterm.Info.Printf("Username: %s\n", session.Username)
		pterm.Info.Printf("Role:     %s\n", session.Role)
		if token := client.GetCSRFToken(); token != "" {
			pterm.Info.Println("CSRF token: present")
		}
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginIdentifier, "identifier", "", "Username or email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginRole, "role", "", "Expected role: tenant or landlord")
	if err := loginCmd.MarkFlagRequired("identifier"); err != nil {
		panic(fmt.Sprintf("mark login flag required: %v", err))
	}

	registerCmd.Flags().StringVar(&registerFullName, "full-name", "", "Full display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Email address")
	registerCmd.Flags().StringVar(&registerUsername, "username", "", "Login username")
	registerCmd.Flags().StringVar(&registerRole, "role", "tenant", "Account role: tenant or landlord")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Password (prompted when omitted)")
	for _, flag := range []string{"full-name", "email", "username"} {
		if err := registerCmd.MarkFlagRequired(flag); err != nil {
			panic(fmt.Sprintf("mark register flag required: %v", err))
		}
	}

	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(statusCmd)
}

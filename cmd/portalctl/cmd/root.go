package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/atlasbahamas/portal-client/internal/credstore"
	"github.com/atlasbahamas/portal-client/internal/pkg/config"
	"github.com/atlasbahamas/portal-client/pkg/logger"
	"github.com/atlasbahamas/portal-client/pkg/portal"
)

var (
	serverURL string

	cfg    *config.Config
	store  *credstore.Store
	jar    *cookiejar.Jar
	client *portal.Client
)

var rootCmd = &cobra.Command{
	Use:   "portalctl",
	Short: "Atlas Bahamas portal CLI",
	Long: `portalctl drives the Atlas Bahamas rental-portal API from the command
line: register and log in, browse listings, view your dashboard, submit and
review rent payments, and manage maintenance requests.

The session cookie is persisted between invocations; the anti-forgery token
is refreshed automatically on the first state-changing call.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

		if serverURL == "" {
			serverURL = cfg.APIBaseURL
		}

		var err error
		store, err = credstore.New(cfg.CredentialsPath)
		if err != nil {
			return fmt.Errorf("open credential store: %w", err)
		}
		jar, err = cookiejar.New(nil)
		if err != nil {
			return fmt.Errorf("create cookie jar: %w", err)
		}

		httpClient := &http.Client{
			Jar:     jar,
			Timeout: time.Duration(cfg.HTTPTimeoutSeconds) * time.Second,
		}
		client = portal.NewClient(serverURL,
			portal.WithHTTPClient(httpClient),
			portal.WithLogger(log),
		)

		creds, err := store.Load()
		if err != nil {
			log.Warn().Err(err).Msg("stored credentials unreadable, starting logged out")
			creds = nil
		}
		if creds != nil {
			creds.SeedJar(jar, serverURL)
			if creds.Session != nil {
				client.SetSession(creds.Session)
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		saveState(cmd.Context())
	},
}

// saveState persists the cookie jar and session snapshot so the next
// invocation resumes the same server session.
func saveState(ctx context.Context) {
	if store == nil || client == nil {
		return
	}
	creds := &credstore.Credentials{
		Cookies: credstore.SnapshotJar(jar, serverURL),
		Session: client.GetSession(ctx, false),
	}
	if err := store.Save(creds); err != nil {
		log := logger.Get()
		log.Warn().Err(err).Msg("could not persist credentials")
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Portal API base URL (defaults to ATLAS_API_URL)")
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(listingsCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(paymentsCmd)
	rootCmd.AddCommand(maintenanceCmd)
	rootCmd.AddCommand(contactCmd)
}

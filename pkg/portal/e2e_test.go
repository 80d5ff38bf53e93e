package portal_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/atlasbahamas/portal-client/internal/atlastest"
	"github.com/atlasbahamas/portal-client/pkg/portal"
)

// newBackend starts the fake backend with one tenant and one landlord
// account and returns a fresh client pointed at it.
func newBackend(t *testing.T) (*atlastest.Server, *portal.Client) {
	t.Helper()
	backend := atlastest.New()
	backend.SeedUser("Tara Tenant", "tara@example.com", "tara", "tenant", "Sunrise!2024xx")
	backend.SeedUser("Lena Landlord", "lena@example.com", "lena", "landlord", "Harbour!2026xx")

	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	return backend, portal.NewClient(srv.URL)
}

func login(t *testing.T, client *portal.Client, identifier, password string) *portal.Session {
	t.Helper()
	result, err := client.Login(context.Background(), portal.LoginInput{
		Identifier: identifier,
		Password:   password,
	})
	if err != nil {
		t.Fatalf("Login(%q): %v", identifier, err)
	}
	if result.Session == nil {
		t.Fatalf("Login(%q): no session adopted", identifier)
	}
	return result.Session
}

func TestLoginSessionLifecycle(t *testing.T) {
	backend, client := newBackend(t)
	ctx := context.Background()

	if s := client.GetSession(ctx, false); s != nil {
		t.Fatalf("fresh client should be logged out, got %+v", s)
	}

	session := login(t, client, "tara", "Sunrise!2024xx")
	if session.Role != portal.RoleTenant || session.Username != "tara" {
		t.Fatalf("session = %+v", session)
	}
	if portal.RoleHome(session.Role) != portal.PageTenantDashboard {
		t.Fatalf("RoleHome = %q", portal.RoleHome(session.Role))
	}
	if client.GetCSRFToken() == "" {
		t.Fatal("login response must deliver a CSRF token")
	}

	// A forced probe agrees with the server.
	probed := client.GetSession(ctx, true)
	if probed == nil || probed.Username != "tara" {
		t.Fatalf("probed session = %+v", probed)
	}

	client.Logout(ctx)
	if s := client.GetSession(ctx, false); s != nil {
		t.Fatalf("session after logout = %+v", s)
	}
	if client.GetCSRFToken() == "" {
		t.Fatal("logout should leave a usable anonymous token")
	}

	if hits := backend.Hits("/api/logout"); hits != 1 {
		t.Fatalf("logout hit %d times", hits)
	}
}

func TestRegisterThenOperate(t *testing.T) {
	_, client := newBackend(t)
	ctx := context.Background()

	result, err := client.Register(ctx, portal.RegisterInput{
		FullName:        "Noah Newcomer",
		Email:           "noah@example.com",
		Username:        "noah",
		Role:            "tenant",
		Password:        "Seabreeze#41x",
		PasswordConfirm: "Seabreeze#41x",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.Session == nil || result.Session.Role != portal.RoleTenant {
		t.Fatalf("session = %+v", result.Session)
	}

	payment, err := client.SubmitPayment(ctx, portal.PaymentInput{Amount: 1250, Note: "September rent"})
	if err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}
	if payment.AmountCents != 125000 || payment.Status != "submitted" {
		t.Fatalf("payment = %+v", payment)
	}

	payments, err := client.FetchPayments(ctx)
	if err != nil {
		t.Fatalf("FetchPayments: %v", err)
	}
	if len(payments) != 1 || payments[0].ID != payment.ID {
		t.Fatalf("payments = %+v", payments)
	}
}

func TestRoleGateAgainstBackend(t *testing.T) {
	_, client := newBackend(t)
	ctx := context.Background()

	check := client.RequireRole(ctx, portal.RoleTenant)
	if check.OK || check.Reason != portal.ReasonUnauthenticated {
		t.Fatalf("anonymous check = %+v", check)
	}

	login(t, client, "tara", "Sunrise!2024xx")

	check = client.RequireRole(ctx, portal.RoleTenant)
	if !check.OK || check.Reason != portal.ReasonOK {
		t.Fatalf("tenant check = %+v", check)
	}
	check = client.RequireRole(ctx, portal.RoleLandlord)
	if check.OK || check.Reason != portal.ReasonForbidden {
		t.Fatalf("cross-role check = %+v", check)
	}
}

func TestPaymentReviewWorkflow(t *testing.T) {
	backend, tenant := newBackend(t)
	ctx := context.Background()

	login(t, tenant, "tara", "Sunrise!2024xx")
	payment, err := tenant.SubmitPayment(ctx, portal.PaymentInput{Amount: 1050, PaymentMonth: "2026-09"})
	if err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}

	// The landlord reviews it through their own client and cookie jar.
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	landlord := portal.NewClient(srv.URL)
	login(t, landlord, "lena", "Harbour!2026xx")

	reviewed, err := landlord.ReviewPayment(ctx, payment.ID, portal.PaymentStatusReceived, "confirmed by bank")
	if err != nil {
		t.Fatalf("ReviewPayment: %v", err)
	}
	if reviewed.Status != portal.PaymentStatusReceived || reviewed.Note != "confirmed by bank" {
		t.Fatalf("reviewed = %+v", reviewed)
	}

	// The tenant cannot review payments.
	_, err = tenant.ReviewPayment(ctx, payment.ID, portal.PaymentStatusRejected, "")
	var apiErr *portal.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 403 {
		t.Fatalf("tenant review: want 403 APIError, got %T (%v)", err, err)
	}
}

func TestReviewPaymentBadIDNeverHitsBackend(t *testing.T) {
	backend, client := newBackend(t)
	login(t, client, "lena", "Harbour!2026xx")

	_, err := client.ReviewPayment(context.Background(), 0, portal.PaymentStatusReceived, "")
	var verr *portal.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %T (%v)", err, err)
	}
	if hits := backend.Hits("/api/workflow/payment/0/status"); hits != 0 {
		t.Fatalf("invalid id reached the backend %d times", hits)
	}
}

func TestMaintenanceWorkflow(t *testing.T) {
	backend, tenant := newBackend(t)
	ctx := context.Background()

	login(t, tenant, "tara", "Sunrise!2024xx")
	ticket, err := tenant.CreateMaintenanceRequest(ctx, portal.MaintenanceInput{
		Subject:  "AC unit rattling",
		Details:  "The bedroom AC started rattling loudly last night.",
		Severity: "high",
	})
	if err != nil {
		t.Fatalf("CreateMaintenanceRequest: %v", err)
	}
	if ticket.Status != portal.MaintenanceStatusOpen || ticket.Severity != "high" {
		t.Fatalf("ticket = %+v", ticket)
	}

	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	landlord := portal.NewClient(srv.URL)
	login(t, landlord, "lena", "Harbour!2026xx")

	updated, err := landlord.UpdateMaintenanceStatus(ctx, ticket.ID, portal.MaintenanceStatusInProgress)
	if err != nil {
		t.Fatalf("UpdateMaintenanceStatus: %v", err)
	}
	if updated.Status != portal.MaintenanceStatusInProgress {
		t.Fatalf("updated = %+v", updated)
	}

	tickets, err := tenant.FetchMaintenanceRequests(ctx)
	if err != nil {
		t.Fatalf("FetchMaintenanceRequests: %v", err)
	}
	if len(tickets) != 1 || tickets[0].Status != portal.MaintenanceStatusInProgress {
		t.Fatalf("tickets = %+v", tickets)
	}
}

func TestDashboards(t *testing.T) {
	backend, tenant := newBackend(t)
	ctx := context.Background()

	login(t, tenant, "tara", "Sunrise!2024xx")
	if _, err := tenant.SubmitPayment(ctx, portal.PaymentInput{Amount: 1250}); err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}

	dash, err := tenant.FetchDashboard(ctx, portal.RoleTenant)
	if err != nil {
		t.Fatalf("FetchDashboard(tenant): %v", err)
	}
	if dash.Session == nil || dash.Session.Username != "tara" {
		t.Fatalf("dashboard session = %+v", dash.Session)
	}
	if dash.KPIs.Receipts != 1 || len(dash.Payments) != 1 {
		t.Fatalf("tenant dashboard = %+v", dash)
	}

	// The landlord dashboard is forbidden for a tenant.
	_, err = tenant.FetchDashboard(ctx, portal.RoleLandlord)
	var apiErr *portal.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 403 {
		t.Fatalf("want 403, got %T (%v)", err, err)
	}

	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	landlord := portal.NewClient(srv.URL)
	login(t, landlord, "lena", "Harbour!2026xx")

	ldash, err := landlord.FetchDashboard(ctx, portal.RoleLandlord)
	if err != nil {
		t.Fatalf("FetchDashboard(landlord): %v", err)
	}
	if len(ldash.PendingPayments) != 1 {
		t.Fatalf("landlord dashboard = %+v", ldash)
	}
}

func TestContactAndListings(t *testing.T) {
	backend, client := newBackend(t)
	ctx := context.Background()

	listings, err := client.FetchListings(ctx)
	if err != nil {
		t.Fatalf("FetchListings: %v", err)
	}
	if len(listings) != 3 || listings[0].City != "Nassau" {
		t.Fatalf("listings = %+v", listings)
	}

	// An anonymous contact submission still works: the pre-request probe
	// fetches an anonymous CSRF token first.
	msg, err := client.SaveContact(ctx, portal.ContactInput{
		Name:    "Walk-in Visitor",
		Email:   "visitor@example.com",
		Message: "Is Harbor Walk 2A still available?",
	})
	if err != nil {
		t.Fatalf("SaveContact: %v", err)
	}
	if msg != "Message sent." {
		t.Fatalf("message = %q", msg)
	}
	if hits := backend.Hits("/api/session"); hits != 1 {
		t.Fatalf("expected exactly one token probe before the write, got %d", hits)
	}
}

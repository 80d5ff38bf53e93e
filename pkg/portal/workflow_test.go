package portal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
)

func TestReviewPayment_InvalidIDStaysLocal(t *testing.T) {
	var mu sync.Mutex
	requests := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		mu.Unlock()
		writeJSON(w, http.StatusOK, `{"ok":true}`)
	}))

	for _, id := range []int64{0, -3} {
		_, err := client.ReviewPayment(context.Background(), id, PaymentStatusReceived, "")
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("ReviewPayment(%d): want *ValidationError, got %T (%v)", id, err, err)
		}
	}
	if requests != 0 {
		t.Fatalf("invalid ids must not reach the network, saw %d requests", requests)
	}
}

func TestUpdateMaintenanceStatus_InvalidIDStaysLocal(t *testing.T) {
	client := NewClient("http://localhost:0")

	_, err := client.UpdateMaintenanceStatus(context.Background(), 0, MaintenanceStatusResolved)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %T (%v)", err, err)
	}
}

func TestSubmitPayment_ValidatesAmount(t *testing.T) {
	client := NewClient("http://localhost:0")

	_, err := client.SubmitPayment(context.Background(), PaymentInput{Amount: 0})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %T (%v)", err, err)
	}
}

func TestSubmitPayment(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/session":
			writeJSON(w, http.StatusOK, `{"ok":true,"authenticated":true,"session":{"username":"tara","role":"tenant"},"csrfToken":"tok"}`)
		case "/api/workflow/payment":
			writeJSON(w, http.StatusOK, `{"ok":true,"payment":{"id":12,"tenantUsername":"tara","amountCents":240000,"amount":2400,"paymentMonth":"2026-09","status":"submitted"}}`)
		}
	}))

	payment, err := client.SubmitPayment(context.Background(), PaymentInput{Amount: 2400, PaymentMonth: "2026-09"})
	if err != nil {
		t.Fatalf("SubmitPayment: %v", err)
	}
	if payment.ID != 12 || payment.AmountCents != 240000 || payment.Status != "submitted" {
		t.Fatalf("payment = %+v", payment)
	}
}

func TestCreateMaintenanceRequest_SeverityValidated(t *testing.T) {
	client := NewClient("http://localhost:0")

	_, err := client.CreateMaintenanceRequest(context.Background(), MaintenanceInput{
		Subject:  "Broken shutter",
		Details:  "The storm shutter on the east window will not close.",
		Severity: "catastrophic",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError for bad severity, got %T (%v)", err, err)
	}
}

func TestFetchMaintenanceRequests(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"ok":true,"requests":[{"id":3,"subject":"Leaky tap","status":"open"}]}`)
	}))

	requests, err := client.FetchMaintenanceRequests(context.Background())
	if err != nil {
		t.Fatalf("FetchMaintenanceRequests: %v", err)
	}
	if len(requests) != 1 || requests[0].Subject != "Leaky tap" {
		t.Fatalf("requests = %+v", requests)
	}
}

package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Payment review statuses accepted by the backend.
const (
	PaymentStatusReceived = "received"
	PaymentStatusRejected = "rejected"
)

// Maintenance request statuses accepted by the backend.
const (
	MaintenanceStatusOpen       = "open"
	MaintenanceStatusInProgress = "in_progress"
	MaintenanceStatusResolved   = "resolved"
	MaintenanceStatusClosed     = "closed"
)

// SubmitPayment records a rent payment for the current tenant.
func (c *Client) SubmitPayment(ctx context.Context, in PaymentInput) (*Payment, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}

	res := c.request(ctx, "/api/workflow/payment", requestOptions{method: http.MethodPost, body: in})
	if !res.OK {
		return nil, apiError(res)
	}
	return decodePayment(res.Body)
}

// FetchPayments lists payments visible to the current session: the tenant's
// own, or every tenant's for a landlord.
func (c *Client) FetchPayments(ctx context.Context) ([]Payment, error) {
	res := c.request(ctx, "/api/workflow/payments", requestOptions{method: http.MethodGet})
	if !res.OK {
		return nil, apiError(res)
	}

	var out struct {
		Payments []Payment `json:"payments"`
	}
	if err := json.Unmarshal(res.Body, &out); err != nil {
		return nil, fmt.Errorf("decode payments response: %w", err)
	}
	return out.Payments, nil
}

// ReviewPayment marks a submitted payment received or rejected. The
// identifier is checked locally; a non-positive id fails without touching
// the network.
func (c *Client) ReviewPayment(ctx context.Context, paymentID int64, status, note string) (*Payment, error) {
	if paymentID <= 0 {
		return nil, validationErrorf("payment id must be a positive number, got %d", paymentID)
	}

	body := struct {
		Status string `json:"status"`
		Note   string `json:"note,omitempty"`
	}{Status: status, Note: note}

	path := fmt.Sprintf("/api/workflow/payment/%d/status", paymentID)
	res := c.request(ctx, path, requestOptions{method: http.MethodPost, body: body})
	if !res.OK {
		return nil, apiError(res)
	}
	return decodePayment(res.Body)
}

// CreateMaintenanceRequest opens a maintenance ticket for the current tenant.
func (c *Client) CreateMaintenanceRequest(ctx context.Context, in MaintenanceInput) (*MaintenanceRequest, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}

	res := c.request(ctx, "/api/workflow/maintenance", requestOptions{method: http.MethodPost, body: in})
	if !res.OK {
		return nil, apiError(res)
	}
	return decodeMaintenance(res.Body)
}

// FetchMaintenanceRequests lists maintenance tickets visible to the current
// session.
func (c *Client) FetchMaintenanceRequests(ctx context.Context) ([]MaintenanceRequest, error) {
	res := c.request(ctx, "/api/workflow/maintenance", requestOptions{method: http.MethodGet})
	if !res.OK {
		return nil, apiError(res)
	}

	var out struct {
		Requests []MaintenanceRequest `json:"requests"`
	}
	if err := json.Unmarshal(res.Body, &out); err != nil {
		return nil, fmt.Errorf("decode maintenance response: %w", err)
	}
	return out.Requests, nil
}

// UpdateMaintenanceStatus moves a maintenance ticket to a new status. The
// identifier is checked locally before any request is issued.
func (c *Client) UpdateMaintenanceStatus(ctx context.Context, requestID int64, status string) (*MaintenanceRequest, error) {
	if requestID <= 0 {
		return nil, validationErrorf("maintenance request id must be a positive number, got %d", requestID)
	}

	body := struct {
		Status string `json:"status"`
	}{Status: status}

	path := fmt.Sprintf("/api/workflow/maintenance/%d/status", requestID)
	res := c.request(ctx, path, requestOptions{method: http.MethodPost, body: body})
	if !res.OK {
		return nil, apiError(res)
	}
	return decodeMaintenance(res.Body)
}

func decodePayment(raw []byte) (*Payment, error) {
	var out struct {
		Payment *Payment `json:"payment"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}
	if out.Payment == nil {
		return nil, fmt.Errorf("decode payment response: payment missing")
	}
	return out.Payment, nil
}

func decodeMaintenance(raw []byte) (*MaintenanceRequest, error) {
	var out struct {
		Request *MaintenanceRequest `json:"request"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode maintenance response: %w", err)
	}
	if out.Request == nil {
		return nil, fmt.Errorf("decode maintenance response: request missing")
	}
	return out.Request, nil
}

package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// SaveContact submits a contact-form message and returns the server's
// acknowledgement text.
func (c *Client) SaveContact(ctx context.Context, in ContactInput) (string, error) {
	if err := c.validateInput(in); err != nil {
		return "", err
	}

	res := c.request(ctx, "/api/contact", requestOptions{method: http.MethodPost, body: in})
	if !res.OK {
		return "", apiError(res)
	}

	var out struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(res.Body, &out)
	if out.Message == "" {
		out.Message = "Message sent."
	}
	return out.Message, nil
}

// FetchListings returns the public rental listings.
func (c *Client) FetchListings(ctx context.Context) ([]Listing, error) {
	res := c.request(ctx, "/api/listings", requestOptions{method: http.MethodGet})
	if !res.OK {
		return nil, apiError(res)
	}

	var out struct {
		Listings []Listing `json:"listings"`
	}
	if err := json.Unmarshal(res.Body, &out); err != nil {
		return nil, fmt.Errorf("decode listings response: %w", err)
	}
	return out.Listings, nil
}

// FetchDashboard retrieves the dashboard snapshot for a role. Any role that
// does not normalize to landlord gets the tenant dashboard, mirroring
// RoleHome.
func (c *Client) FetchDashboard(ctx context.Context, role string) (*Dashboard, error) {
	path := "/api/dashboard/tenant"
	if NormalizeRole(role) == RoleLandlord {
		path = "/api/dashboard/landlord"
	}

	res := c.request(ctx, path, requestOptions{method: http.MethodGet})
	if !res.OK {
		return nil, apiError(res)
	}

	var out Dashboard
	if err := json.Unmarshal(res.Body, &out); err != nil {
		return nil, fmt.Errorf("decode dashboard response: %w", err)
	}
	return &out, nil
}

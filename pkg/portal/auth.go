package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Register creates an account and, on success, adopts the returned session
// as the current one. The password policy is evaluated locally first so an
// obviously weak password never reaches the wire.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if policy := PasswordPolicyErrors(in.Password); len(policy) > 0 {
		return nil, validationErrorf("Password must include: %s.", strings.Join(policy, ", "))
	}
	if err := c.validateInput(in); err != nil {
		return nil, err
	}
	in.Role = NormalizeRole(in.Role)

	res := c.request(ctx, "/api/register", requestOptions{method: http.MethodPost, body: in})
	if !res.OK {
		return nil, apiError(res)
	}

	var out AuthResult
	if err := json.Unmarshal(res.Body, &out); err != nil {
		return nil, fmt.Errorf("decode register response: %w", err)
	}
	out.Session = c.SetSession(out.snapshot())
	return &out, nil
}

// Login authenticates by username or email and adopts the returned session.
func (c *Client) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if err := c.validateInput(in); err != nil {
		return nil, err
	}
	in.Role = NormalizeRole(in.Role)

	res := c.request(ctx, "/api/login", requestOptions{method: http.MethodPost, body: in})
	if !res.OK {
		return nil, apiError(res)
	}

	var out AuthResult
	if err := json.Unmarshal(res.Body, &out); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	out.Session = c.SetSession(out.snapshot())
	return &out, nil
}

// Logout ends the server session, clears the local session regardless of
// the network outcome, and forces a fresh probe so the client leaves with
// an authoritative logged-out state and a usable CSRF token.
func (c *Client) Logout(ctx context.Context) {
	res := c.request(ctx, "/api/logout", requestOptions{method: http.MethodPost, body: struct{}{}})
	if !res.OK {
		c.log.Debug().Int("status", res.Status).Str("error", res.Error).Msg("logout request failed, clearing local session anyway")
	}
	c.ClearSession()
	c.probeSession(ctx, "logout")
}

package portal

import "context"

// Role-gate verdict reasons.
const (
	ReasonOK              = "ok"
	ReasonUnauthenticated = "unauthenticated"
	ReasonForbidden       = "forbidden"
)

// RoleCheck is an authorization verdict. Session is carried alongside (when
// one exists) so callers can render identity-specific content without a
// second lookup.
type RoleCheck struct {
	OK      bool
	Reason  string
	Session *Session
}

// RequireRole authorizes access to a view restricted to role. An empty
// normalized role means "any authenticated session accepted", used by
// generic logged-in-only pages. The session is read through the cache, so
// repeated gates on one page cost a single probe at most.
func (c *Client) RequireRole(ctx context.Context, role string) RoleCheck {
	session := c.GetSession(ctx, false)
	if session == nil {
		return RoleCheck{Reason: ReasonUnauthenticated}
	}

	expected := NormalizeRole(role)
	if expected == "" {
		return RoleCheck{OK: true, Reason: ReasonOK, Session: session}
	}
	if NormalizeRole(session.Role) != expected {
		return RoleCheck{Reason: ReasonForbidden, Session: session}
	}
	return RoleCheck{OK: true, Reason: ReasonOK, Session: session}
}

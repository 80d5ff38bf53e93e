package portal

import (
	"net/url"
	"strings"
)

var allowedNextPages = map[string]struct{}{
	PageTenantDashboard:   {},
	PageLandlordDashboard: {},
	PageListings:          {},
	PageContact:           {},
	PageAbout:             {},
}

// SafeNextPath validates a requested post-login redirect target against the
// fixed allowlist of known pages. Anything else, including traversal paths
// and absolute URLs, collapses to "".
func SafeNextPath(next string) string {
	value := strings.TrimSpace(next)
	if value == "" {
		return ""
	}
	if _, ok := allowedNextPages[value]; ok {
		return value
	}
	return ""
}

// QueryParams is the normalized view of the login page's query string.
type QueryParams struct {
	Role string
	Next string
}

// ParseQuery decodes a raw URL query string (with or without the leading
// "?") into a normalized role and a validated next-path. Undecodable
// parameters are simply dropped.
func ParseQuery(search string) QueryParams {
	raw := strings.TrimPrefix(strings.TrimSpace(search), "?")
	values, _ := url.ParseQuery(raw)
	return QueryParams{
		Role: NormalizeRole(values.Get("role")),
		Next: SafeNextPath(values.Get("next")),
	}
}

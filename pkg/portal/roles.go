package portal

import "strings"

// Role vocabulary understood by the backend. Anything outside this set
// normalizes to the empty string, which the role gate treats as
// "no restriction".
const (
	RoleTenant   = "tenant"
	RoleLandlord = "landlord"
)

// Page identifiers of the portal's navigable pages.
const (
	PageTenantDashboard   = "AtlasBahamasTenantDashboard.html"
	PageLandlordDashboard = "AtlasBahamasLandlordDashboard.html"
	PageListings          = "AtlasBahamasListings.html"
	PageContact           = "AtlasBahamasContact.html"
	PageAbout             = "AtlasBahamasAbout.html"
)

// NormalizeRole maps a free-form role string to the closed role vocabulary.
// Legacy spellings of the landlord role ("property_manager", "manager") are
// folded in; unknown input yields "". Total and idempotent.
func NormalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "tenant":
		return RoleTenant
	case "landlord", "property_manager", "manager":
		return RoleLandlord
	default:
		return ""
	}
}

// RoleHome returns the dashboard page for a role. Every input has a home:
// anything that is not a landlord lands on the tenant dashboard.
func RoleHome(role string) string {
	if NormalizeRole(role) == RoleLandlord {
		return PageLandlordDashboard
	}
	return PageTenantDashboard
}

package portal

import "testing"

func TestSafeNextPath(t *testing.T) {
	allowed := []string{
		PageTenantDashboard,
		PageLandlordDashboard,
		PageListings,
		PageContact,
		PageAbout,
	}
	for _, page := range allowed {
		if got := SafeNextPath(page); got != page {
			t.Errorf("SafeNextPath(%q) = %q, want unchanged", page, got)
		}
	}

	rejected := []string{
		"",
		"../../secret",
		"http://evil.example",
		"//evil.example/AtlasBahamasListings.html",
		"AtlasBahamasAdmin.html",
		"atlasbahamaslistings.html",
	}
	for _, input := range rejected {
		if got := SafeNextPath(input); got != "" {
			t.Errorf("SafeNextPath(%q) = %q, want empty", input, got)
		}
	}
}

func TestParseQuery(t *testing.T) {
	got := ParseQuery("?role=Manager&next=AtlasBahamasListings.html")
	if got.Role != RoleLandlord {
		t.Errorf("role = %q, want landlord", got.Role)
	}
	if got.Next != PageListings {
		t.Errorf("next = %q, want %q", got.Next, PageListings)
	}

	got = ParseQuery("role=tenant&next=http%3A%2F%2Fevil.example")
	if got.Role != RoleTenant {
		t.Errorf("role = %q, want tenant", got.Role)
	}
	if got.Next != "" {
		t.Errorf("next = %q, want empty", got.Next)
	}

	if got = ParseQuery(""); got.Role != "" || got.Next != "" {
		t.Errorf("ParseQuery(\"\") = %+v, want zero", got)
	}

	// Undecodable input never panics, it just yields nothing.
	if got = ParseQuery("%zz=%zz"); got.Role != "" || got.Next != "" {
		t.Errorf("ParseQuery(garbage) = %+v, want zero", got)
	}
}

package portal

import "testing"

func TestNormalizeRole(t *testing.T) {
	cases := map[string]string{
		"tenant":           RoleTenant,
		"  TENANT  ":       RoleTenant,
		"landlord":         RoleLandlord,
		"Landlord":         RoleLandlord,
		"property_manager": RoleLandlord,
		"MANAGER":          RoleLandlord,
		"":                 "",
		"admin":            "",
		"ten ant":          "",
	}
	for input, want := range cases {
		if got := NormalizeRole(input); got != want {
			t.Errorf("NormalizeRole(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestNormalizeRole_Idempotent(t *testing.T) {
	inputs := []string{"tenant", "landlord", "property_manager", "manager", "", "weird", "  Tenant "}
	for _, input := range inputs {
		once := NormalizeRole(input)
		if twice := NormalizeRole(once); twice != once {
			t.Errorf("NormalizeRole not idempotent for %q: %q != %q", input, twice, once)
		}
	}
}

func TestRoleHome(t *testing.T) {
	if got := RoleHome("landlord"); got != PageLandlordDashboard {
		t.Errorf("RoleHome(landlord) = %q", got)
	}
	if got := RoleHome("manager"); got != PageLandlordDashboard {
		t.Errorf("RoleHome(manager) = %q", got)
	}
	if got := RoleHome("tenant"); got != PageTenantDashboard {
		t.Errorf("RoleHome(tenant) = %q", got)
	}
	// Unknown roles land on the tenant dashboard; RoleHome is total.
	if got := RoleHome("nonsense"); got != PageTenantDashboard {
		t.Errorf("RoleHome(nonsense) = %q", got)
	}
}

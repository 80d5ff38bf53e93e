package portal

import "unicode"

// PasswordPolicyErrors evaluates the portal's password policy and returns a
// human-readable reason for every unmet rule, in fixed check order: length,
// uppercase, lowercase, digit, symbol. An empty slice means the password is
// accepted.
func PasswordPolicyErrors(password string) []string {
	var (
		hasUpper  bool
		hasLower  bool
		hasDigit  bool
		hasSymbol bool
	)
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	var errs []string
	if len([]rune(password)) < 10 {
		errs = append(errs, "minimum 10 characters")
	}
	if !hasUpper {
		errs = append(errs, "at least one uppercase letter")
	}
	if !hasLower {
		errs = append(errs, "at least one lowercase letter")
	}
	if !hasDigit {
		errs = append(errs, "at least one number")
	}
	if !hasSymbol {
		errs = append(errs, "at least one symbol")
	}
	return errs
}

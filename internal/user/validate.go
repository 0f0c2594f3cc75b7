package user

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	upperPattern = regexp.MustCompile(`[A-Z]`)
	lowerPattern = regexp.MustCompile(`[a-z]`)
	namePattern  = regexp.MustCompile(`^[A-Za-z\s]+$`)
)

// registerFieldOrder keeps the "first" validation error deterministic.
var registerFieldOrder = []string{"email", "password", "confirmPassword", "firstName", "lastName", "address"}

// validateRegistration collects every field error rather than stopping at the
// first so clients can highlight all offending fields at once.
func validateRegistration(in RegisterInput) map[string]string {
	errs := map[string]string{}

	if !emailPattern.MatchString(in.Email) {
		errs["email"] = "email must have a valid format"
	}
	if len(in.Password) < 5 || !upperPattern.MatchString(in.Password) || !lowerPattern.MatchString(in.Password) {
		errs["password"] = "password must be at least 5 characters with an uppercase and a lowercase letter"
	}
	if in.Password != in.ConfirmPassword {
		errs["confirmPassword"] = "passwords do not match"
	}
	if !namePattern.MatchString(in.FirstName) {
		errs["firstName"] = "first name may only contain letters"
	}
	if !namePattern.MatchString(in.LastName) {
		errs["lastName"] = "last name may only contain letters"
	}
	if strings.TrimSpace(in.Address) == "" {
		errs["address"] = "address is required"
	}

	return errs
}

func firstValidationError(errs map[string]string) string {
	for _, field := range registerFieldOrder {
		if msg, ok := errs[field]; ok {
			return msg
		}
	}
	return ""
}

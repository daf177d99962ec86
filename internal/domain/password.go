package domain

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// ValidateRegistration applies the two client-side password rules.
// Confirmation is checked first, then length.
func ValidateRegistration(password, confirmation string) error {
	if password != confirmation {
		return &ValidationError{Field: "confirm", Reason: "passwords do not match"}
	}
	if len([]rune(password)) < MinPasswordLength {
		return &ValidationError{Field: "password", Reason: "password must be at least 6 characters"}
	}
	return nil
}

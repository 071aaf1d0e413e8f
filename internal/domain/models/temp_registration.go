package models

import "time"

// TemporaryRegistrationTTL bounds the window between registration start and
// MFA confirmation.
const TemporaryRegistrationTTL = 15 * time.Minute

// TemporaryRegistration holds registration data between the initial submission
// and the MFA confirmation that completes it. Stored in the "temp_users"
// collection, keyed by email; a new registration attempt for the same email
// overwrites the previous one. The password stays raw until the registration
// completes, mirroring the secret material the confirmation step needs.
type TemporaryRegistration struct {
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	MFASecret string    `json:"mfa_secret"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the registration window has closed at the given instant.
func (r *TemporaryRegistration) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

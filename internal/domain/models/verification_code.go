package models

import "time"

// VerificationCodeType tags a verification code with the flow that issued it.
// The empty type is used by flows that predate type discrimination (login MFA,
// profile update); their codes are validated without a type check.
type VerificationCodeType string

const (
	VerificationCodeTypeNone          VerificationCodeType = ""
	VerificationCodeTypePasswordReset VerificationCodeType = "password_reset"
	VerificationCodeTypeMFAQRRecovery VerificationCodeType = "mfa_qr_recovery"
)

// VerificationCodeTTL is how long an issued code stays redeemable.
const VerificationCodeTTL = 5 * time.Minute

// VerificationCode is a short-lived numeric credential stored in the
// "mfa_codes" collection, keyed by email. At most one code exists per email;
// issuing a new one overwrites any prior unredeemed code regardless of type.
type VerificationCode struct {
	Code          string               `json:"code"`
	Email         string               `json:"email"`
	Type          VerificationCodeType `json:"type,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	ExpiresAt     time.Time            `json:"expires_at"`
	PendingUpdate *PendingUpdate       `json:"pending_update,omitempty"`
}

// Expired reports whether the code is past its expiry at the given instant.
func (c *VerificationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// PendingUpdate is the profile change staged behind a verification code.
// Only fields present are applied on redemption.
type PendingUpdate struct {
	Username     string `json:"username,omitempty"`
	PasswordHash string `json:"password_hash,omitempty"`
}

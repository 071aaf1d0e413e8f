package models

// RegisterRequest starts a registration. Temp must be true; the account is not
// created until the MFA confirmation step succeeds.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Temp     bool   `json:"temp"`
}

// RegisterStartResponse returns the QR payload the client must scan to finish
// MFA enrollment.
type RegisterStartResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
	QR      string `json:"qr"`
}

// CompleteRegistrationRequest confirms a pending registration with a TOTP code.
// Username and Password, when present, override the values captured at start.
type CompleteRegistrationRequest struct {
	Email    string `json:"email" binding:"required"`
	Code     string `json:"code" binding:"required"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest carries the first authentication factor.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginChallenge is returned when the password checks out and the second
// factor is still outstanding. No token is issued at this stage.
type LoginChallenge struct {
	Message     string `json:"message"`
	MFARequired bool   `json:"mfaRequired"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	UserID      string `json:"userId"`
}

// VerifyMFARequest carries the TOTP second factor for login.
type VerifyMFARequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// AuthResult is the terminal state of a successful login.
type AuthResult struct {
	Message  string `json:"message"`
	Token    string `json:"token"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
	UserID   string `json:"userId"`
}

// PasswordResetRequest asks for a reset code to be mailed.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest redeems a reset code against a new password.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// GenerateMFAQRRequest redeems a recovery code for a fresh QR payload.
type GenerateMFAQRRequest struct {
	Email    string `json:"email" binding:"required"`
	TempCode string `json:"tempCode" binding:"required"`
}

// UpdateProfileRequest stages a self-service profile change behind a mailed code.
type UpdateProfileRequest struct {
	Email    string `json:"email" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password"`
}

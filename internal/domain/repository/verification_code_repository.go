package repository

import (
	"context"

	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"
)

// VerificationCodeRepository provides access to the mfa_codes collection.
// Codes are keyed by email; Set overwrites any prior code for that email.
type VerificationCodeRepository interface {
	Set(ctx context.Context, code *models.VerificationCode) error
	// Get returns the outstanding code for the email, or errors.ErrNotFound.
	Get(ctx context.Context, email string) (*models.VerificationCode, error)
	Delete(ctx context.Context, email string) error
}

// TempRegistrationRepository provides access to the temp_users collection,
// keyed by email.
type TempRegistrationRepository interface {
	Set(ctx context.Context, reg *models.TemporaryRegistration) error
	// Get returns the pending registration for the email, or errors.ErrNotFound.
	Get(ctx context.Context, email string) (*models.TemporaryRegistration, error)
	Delete(ctx context.Context, email string) error
}

package database

import (
	"context"
	"errors"
	"fmt"

	domainErrors "github.com/Litzi-Otero/ReadyBook-back/internal/domain/errors"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/repository"
	"github.com/Litzi-Otero/ReadyBook-back/internal/infrastructure/docstore"
)

const (
	codesCollection     = "mfa_codes"
	tempUsersCollection = "temp_users"
)

type docVerificationCodeRepository struct {
	coll *docstore.Collection
}

// NewVerificationCodeRepository creates a VerificationCodeRepository over the
// document store.
func NewVerificationCodeRepository(store *docstore.Store) repository.VerificationCodeRepository {
	return &docVerificationCodeRepository{coll: store.Collection(codesCollection)}
}

func (r *docVerificationCodeRepository) Set(ctx context.Context, code *models.VerificationCode) error {
	if err := r.coll.Set(ctx, code.Email, code); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	return nil
}

func (r *docVerificationCodeRepository) Get(ctx context.Context, email string) (*models.VerificationCode, error) {
	var code models.VerificationCode
	if err := r.coll.Get(ctx, email, &code); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get verification code: %w", err)
	}
	return &code, nil
}

func (r *docVerificationCodeRepository) Delete(ctx context.Context, email string) error {
	if err := r.coll.Delete(ctx, email); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return domainErrors.ErrNotFound
		}
		return fmt.Errorf("failed to delete verification code: %w", err)
	}
	return nil
}

type docTempRegistrationRepository struct {
	coll *docstore.Collection
}

// NewTempRegistrationRepository creates a TempRegistrationRepository over the
// document store.
func NewTempRegistrationRepository(store *docstore.Store) repository.TempRegistrationRepository {
	return &docTempRegistrationRepository{coll: store.Collection(tempUsersCollection)}
}

func (r *docTempRegistrationRepository) Set(ctx context.Context, reg *models.TemporaryRegistration) error {
	if err := r.coll.Set(ctx, reg.Email, reg); err != nil {
		return fmt.Errorf("failed to store pending registration: %w", err)
	}
	return nil
}

func (r *docTempRegistrationRepository) Get(ctx context.Context, email string) (*models.TemporaryRegistration, error) {
	var reg models.TemporaryRegistration
	if err := r.coll.Get(ctx, email, &reg); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pending registration: %w", err)
	}
	return &reg, nil
}

func (r *docTempRegistrationRepository) Delete(ctx context.Context, email string) error {
	if err := r.coll.Delete(ctx, email); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return domainErrors.ErrNotFound
		}
		return fmt.Errorf("failed to delete pending registration: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/Litzi-Otero/ReadyBook-back/internal/domain/errors"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/repository"
	"github.com/Litzi-Otero/ReadyBook-back/internal/infrastructure/security"
)

// UserService covers plain profile CRUD and the code-gated self-service
// profile update.
type UserService struct {
	users        repository.UserRepository
	verification *VerificationService
	passwords    *security.PasswordService
	mailer       Mailer
	logger       *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(
	users repository.UserRepository,
	verification *VerificationService,
	passwords *security.PasswordService,
	mailer Mailer,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		users:        users,
		verification: verification,
		passwords:    passwords,
		mailer:       mailer,
		logger:       logger.Named("user_service"),
	}
}

// Create stores an admin-created profile record.
func (s *UserService) Create(ctx context.Context, name, email string, age int) (*models.User, error) {
	user := &models.User{
		Name:      name,
		Email:     email,
		Age:       age,
		CreatedAt: time.Now(),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// Update applies an admin update to the user with the given id.
func (s *UserService) Update(ctx context.Context, id string, update models.UserUpdate) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrUserNotFound
		}
		return err
	}

	if update.Username != nil {
		user.Username = *update.Username
	}
	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Role != nil {
		user.Role = *update.Role
	}
	return s.users.Update(ctx, user)
}

// Delete removes the user with the given id.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrUserNotFound
		}
		return err
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

// RequestProfileUpdate stages a profile change behind a mailed verification
// code. The password, when present, is hashed now so the raw value never
// reaches the store. Returns the id of the user the change targets; note the
// user is re-resolved by email again at confirmation time.
func (s *UserService) RequestProfileUpdate(ctx context.Context, req models.UpdateProfileRequest) (string, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return "", domainErrors.ErrUserNotFound
		}
		return "", err
	}

	pending := &models.PendingUpdate{Username: req.Username}
	if req.Password != "" {
		hash, err := s.passwords.Hash(req.Password)
		if err != nil {
			return "", err
		}
		pending.PasswordHash = hash
	}

	record, err := s.verification.Issue(ctx, req.Email, models.VerificationCodeTypeNone, pending)
	if err != nil {
		return "", err
	}
	if err := s.mailer.SendProfileUpdateCode(req.Email, record.Code); err != nil {
		return "", err
	}
	return user.ID, nil
}

// ConfirmProfileUpdate redeems the code and applies the staged change. Only
// fields present in the pending update are written. The target user is
// resolved by the then-current email, which leaves a documented staleness
// window if the email changed between issuance and redemption.
func (s *UserService) ConfirmProfileUpdate(ctx context.Context, email, code string) error {
	record, err := s.verification.Redeem(ctx, email, code, models.VerificationCodeTypeNone)
	if err != nil {
		return err
	}
	if record.PendingUpdate == nil {
		// A code issued by another flow carries no staged change.
		return domainErrors.ErrCodeTypeMismatch
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrUserNotFound
		}
		return err
	}

	if record.PendingUpdate.Username != "" {
		user.Username = record.PendingUpdate.Username
	}
	if record.PendingUpdate.PasswordHash != "" {
		user.PasswordHash = record.PendingUpdate.PasswordHash
	}
	now := time.Now()
	user.UpdatedAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("profile updated", zap.String("user_id", user.ID))
	return nil
}

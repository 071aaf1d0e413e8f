package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/Litzi-Otero/ReadyBook-back/internal/domain/errors"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/repository"
	"github.com/Litzi-Otero/ReadyBook-back/internal/utils/keymutex"
)

// VerificationService issues and redeems the short-lived numeric codes that
// gate password resets, MFA recovery, profile updates and registration
// completion. One code is outstanding per email at a time: issuing a new one
// overwrites any prior unredeemed code, even across flow types.
type VerificationService struct {
	codes  repository.VerificationCodeRepository
	locks  *keymutex.KeyMutex
	logger *zap.Logger
}

// NewVerificationService creates a VerificationService.
func NewVerificationService(
	codes repository.VerificationCodeRepository,
	locks *keymutex.KeyMutex,
	logger *zap.Logger,
) *VerificationService {
	return &VerificationService{
		codes:  codes,
		locks:  locks,
		logger: logger.Named("verification_service"),
	}
}

// Issue generates a 6-digit code for the email, persists it with a 5-minute
// expiry and returns the stored record. pending, when non-nil, stages a
// profile update behind the code.
func (s *VerificationService) Issue(
	ctx context.Context,
	email string,
	codeType models.VerificationCodeType,
	pending *models.PendingUpdate,
) (*models.VerificationCode, error) {
	code, err := generateNumericCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}

	now := time.Now()
	record := &models.VerificationCode{
		Code:          code,
		Email:         email,
		Type:          codeType,
		CreatedAt:     now,
		ExpiresAt:     now.Add(models.VerificationCodeTTL),
		PendingUpdate: pending,
	}

	s.locks.Lock(email)
	defer s.locks.Unlock(email)

	if err := s.codes.Set(ctx, record); err != nil {
		return nil, err
	}
	s.logger.Info("verification code issued",
		zap.String("email", email), zap.String("type", string(codeType)))
	return record, nil
}

// Redeem validates and consumes the outstanding code for the email. A type
// check applies only when expectedType is non-empty; untyped flows (login MFA
// legacy, profile update) predate type discrimination. An expired record is
// deleted before the failure is returned. On success the record is deleted
// and returned, so a given code redeems at most once.
func (s *VerificationService) Redeem(
	ctx context.Context,
	email, code string,
	expectedType models.VerificationCodeType,
) (*models.VerificationCode, error) {
	s.locks.Lock(email)
	defer s.locks.Unlock(email)

	record, err := s.codes.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrCodeNotFound
		}
		return nil, err
	}

	if expectedType != models.VerificationCodeTypeNone && record.Type != expectedType {
		return nil, domainErrors.ErrCodeTypeMismatch
	}
	if record.Code != code {
		return nil, domainErrors.ErrCodeMismatch
	}
	if record.Expired(time.Now()) {
		if err := s.codes.Delete(ctx, email); err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
			s.logger.Warn("failed to delete expired code", zap.String("email", email), zap.Error(err))
		}
		return nil, domainErrors.ErrCodeExpired
	}

	if err := s.codes.Delete(ctx, email); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			// Consumed by a concurrent redemption.
			return nil, domainErrors.ErrCodeNotFound
		}
		return nil, err
	}

	s.logger.Info("verification code redeemed",
		zap.String("email", email), zap.String("type", string(record.Type)))
	return record, nil
}

// generateNumericCode returns a uniformly distributed 6-digit decimal string
// in [100000, 999999].
func generateNumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/Litzi-Otero/ReadyBook-back/internal/domain/errors"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/repository"
	"github.com/Litzi-Otero/ReadyBook-back/internal/infrastructure/security"
)

// AuthService implements registration, password+TOTP login, password reset
// and MFA-QR recovery. MFA is mandatory: a user without a configured secret
// cannot complete login.
type AuthService struct {
	users        repository.UserRepository
	tempRegs     repository.TempRegistrationRepository
	verification *VerificationService
	passwords    *security.PasswordService
	totp         *security.TOTPService
	tokens       *security.TokenService
	mailer       Mailer
	logger       *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(
	users repository.UserRepository,
	tempRegs repository.TempRegistrationRepository,
	verification *VerificationService,
	passwords *security.PasswordService,
	totp *security.TOTPService,
	tokens *security.TokenService,
	mailer Mailer,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:        users,
		tempRegs:     tempRegs,
		verification: verification,
		passwords:    passwords,
		totp:         totp,
		tokens:       tokens,
		mailer:       mailer,
		logger:       logger.Named("auth_service"),
	}
}

// StartRegistration provisions an MFA secret for the new account, stores the
// registration data as a temporary record with a 15-minute window and returns
// the QR payload the client must scan. The account itself is not created
// until CompleteRegistration succeeds. A second start for the same email
// overwrites the pending record.
func (s *AuthService) StartRegistration(ctx context.Context, req models.RegisterRequest) (*models.RegisterStartResponse, error) {
	_, err := s.users.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, domainErrors.ErrEmailTaken
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	secret, err := s.totp.GenerateSecret(req.Email)
	if err != nil {
		return nil, err
	}
	qr, err := s.totp.QRDataURL(secret, req.Email)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	reg := &models.TemporaryRegistration{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		MFASecret: secret,
		CreatedAt: now,
		ExpiresAt: now.Add(models.TemporaryRegistrationTTL),
	}
	if err := s.tempRegs.Set(ctx, reg); err != nil {
		return nil, err
	}

	s.logger.Info("registration started", zap.String("email", req.Email))
	return &models.RegisterStartResponse{
		Message: "Configura MFA para completar el registro",
		Email:   req.Email,
		QR:      qr,
	}, nil
}

// CompleteRegistration verifies the TOTP code against the pending
// registration and, only then, creates the permanent user with role
// "cliente". The temporary record is deleted on success, and also when it
// turns out to be expired.
func (s *AuthService) CompleteRegistration(ctx context.Context, req models.CompleteRegistrationRequest) (*models.User, error) {
	reg, err := s.tempRegs.Get(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrRegistrationNotFound
		}
		return nil, err
	}

	if reg.Expired(time.Now()) {
		if err := s.tempRegs.Delete(ctx, req.Email); err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
			s.logger.Warn("failed to delete expired registration", zap.String("email", req.Email), zap.Error(err))
		}
		return nil, domainErrors.ErrRegistrationExpired
	}

	if !s.totp.Validate(reg.MFASecret, req.Code) {
		return nil, domainErrors.ErrInvalidMFACode
	}

	// Request values override the ones captured at registration start.
	username := reg.Username
	if req.Username != "" {
		username = req.Username
	}
	password := reg.Password
	if req.Password != "" {
		password = req.Password
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleCliente,
		MFASecret:    reg.MFASecret,
		CreatedAt:    time.Now(),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.tempRegs.Delete(ctx, req.Email); err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
		s.logger.Warn("failed to delete completed registration", zap.String("email", req.Email), zap.Error(err))
	}

	s.logger.Info("registration completed", zap.String("email", req.Email), zap.String("user_id", user.ID))
	return user, nil
}

// Login checks the first factor and returns the MFA challenge. No token is
// issued here; the client must follow up with VerifyLoginMFA.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginChallenge, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.passwords.Check(req.Password, user.PasswordHash) {
		return nil, domainErrors.ErrInvalidCredentials
	}
	if !user.HasMFA() {
		return nil, domainErrors.ErrMFANotConfigured
	}

	return &models.LoginChallenge{
		Message:     "Se requiere verificación MFA",
		MFARequired: true,
		Email:       user.Email,
		Username:    user.Username,
		UserID:      user.ID,
	}, nil
}

// VerifyLoginMFA checks the TOTP second factor and issues the session token.
func (s *AuthService) VerifyLoginMFA(ctx context.Context, req models.VerifyMFARequest) (*models.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrUserNotFound
		}
		return nil, err
	}
	if !user.HasMFA() {
		return nil, domainErrors.ErrMFANotConfigured
	}
	if !s.totp.Validate(user.MFASecret, req.Code) {
		return nil, domainErrors.ErrInvalidMFACode
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Username)
	if err != nil {
		return nil, err
	}

	s.logger.Info("login completed", zap.String("user_id", user.ID))
	return &models.AuthResult{
		Message:  "Autenticación MFA exitosa",
		Token:    token,
		Email:    user.Email,
		Username: user.Username,
		Role:     user.Role,
		UserID:   user.ID,
	}, nil
}

// RequestPasswordReset issues a password_reset code and mails it to the user.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrUserNotFound
		}
		return err
	}

	record, err := s.verification.Issue(ctx, user.Email, models.VerificationCodeTypePasswordReset, nil)
	if err != nil {
		return err
	}
	if err := s.mailer.SendPasswordResetCode(user.Email, record.Code); err != nil {
		return fmt.Errorf("failed to send reset code: %w", err)
	}
	return nil
}

// ResetPassword redeems a password_reset code and writes the new password.
// The code's type must match; a code issued for another flow cannot reset a
// password.
func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	if _, err := s.verification.Redeem(ctx, req.Email, req.Code, models.VerificationCodeTypePasswordReset); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrUserNotFound
		}
		return err
	}

	hash, err := s.passwords.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	now := time.Now()
	user.PasswordHash = hash
	user.UpdatedAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("password reset", zap.String("user_id", user.ID))
	return nil
}

// RequestMFAQRCode issues an mfa_qr_recovery code and mails it to the user.
func (s *AuthService) RequestMFAQRCode(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrUserNotFound
		}
		return err
	}

	record, err := s.verification.Issue(ctx, user.Email, models.VerificationCodeTypeMFAQRRecovery, nil)
	if err != nil {
		return err
	}
	if err := s.mailer.SendMFARecoveryCode(user.Email, record.Code); err != nil {
		return fmt.Errorf("failed to send recovery code: %w", err)
	}
	return nil
}

// GenerateMFAQR redeems an mfa_qr_recovery code and returns a QR payload for
// the user's secret. A user who lost their secret entirely gets a new one
// provisioned and persisted; an existing secret is re-rendered as is.
func (s *AuthService) GenerateMFAQR(ctx context.Context, req models.GenerateMFAQRRequest) (string, error) {
	if _, err := s.verification.Redeem(ctx, req.Email, req.TempCode, models.VerificationCodeTypeMFAQRRecovery); err != nil {
		return "", err
	}

	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return "", domainErrors.ErrUserNotFound
		}
		return "", err
	}

	secret := user.MFASecret
	if !user.HasMFA() {
		secret, err = s.totp.GenerateSecret(user.Email)
		if err != nil {
			return "", err
		}
		now := time.Now()
		user.MFASecret = secret
		user.UpdatedAt = &now
		if err := s.users.Update(ctx, user); err != nil {
			return "", err
		}
		s.logger.Info("mfa secret provisioned via recovery", zap.String("user_id", user.ID))
	}

	return s.totp.QRDataURL(secret, user.Email)
}

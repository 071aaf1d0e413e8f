package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/Litzi-Otero/ReadyBook-back/internal/domain/errors"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"
)

func TestVerification_IssueProducesSixDigitCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.verification.Issue(ctx, "a@x.com", models.VerificationCodeTypePasswordReset, nil)
	require.NoError(t, err)

	assert.Len(t, record.Code, 6)
	assert.GreaterOrEqual(t, record.Code, "100000")
	assert.LessOrEqual(t, record.Code, "999999")
	assert.WithinDuration(t, record.CreatedAt.Add(models.VerificationCodeTTL), record.ExpiresAt, time.Second)
}

func TestVerification_RedeemAtMostOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.verification.Issue(ctx, "a@x.com", models.VerificationCodeTypePasswordReset, nil)
	require.NoError(t, err)

	got, err := env.verification.Redeem(ctx, "a@x.com", record.Code, models.VerificationCodeTypePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, record.Code, got.Code)

	_, err = env.verification.Redeem(ctx, "a@x.com", record.Code, models.VerificationCodeTypePasswordReset)
	assert.ErrorIs(t, err, domainErrors.ErrCodeNotFound)
}

func TestVerification_RedeemMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.verification.Issue(ctx, "a@x.com", models.VerificationCodeTypePasswordReset, nil)
	require.NoError(t, err)

	wrong := "100000"
	if record.Code == wrong {
		wrong = "100001"
	}
	_, err = env.verification.Redeem(ctx, "a@x.com", wrong, models.VerificationCodeTypePasswordReset)
	assert.ErrorIs(t, err, domainErrors.ErrCodeMismatch)

	// The record survives a mismatch.
	_, err = env.verification.Redeem(ctx, "a@x.com", record.Code, models.VerificationCodeTypePasswordReset)
	assert.NoError(t, err)
}

func TestVerification_RedeemTypeMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.verification.Issue(ctx, "a@x.com", models.VerificationCodeTypeMFAQRRecovery, nil)
	require.NoError(t, err)

	_, err = env.verification.Redeem(ctx, "a@x.com", record.Code, models.VerificationCodeTypePasswordReset)
	assert.ErrorIs(t, err, domainErrors.ErrCodeTypeMismatch)
}

func TestVerification_UntypedRedeemSkipsTypeCheck(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	record, err := env.verification.Issue(ctx, "a@x.com", models.VerificationCodeTypePasswordReset, nil)
	require.NoError(t, err)

	// The legacy untyped flows accept any stored type.
	_, err = env.verification.Redeem(ctx, "a@x.com", record.Code, models.VerificationCodeTypeNone)
	assert.NoError(t, err)
}

func TestVerification_ExpiryWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	issuedAt := time.Now().Add(-models.VerificationCodeTTL)

	// One second inside the window still redeems.
	inside := &models.VerificationCode{
		Code:      "123456",
		Email:     "in@x.com",
		Type:      models.VerificationCodeTypePasswordReset,
		CreatedAt: issuedAt,
		ExpiresAt: time.Now().Add(time.Second),
	}
	require.NoError(t, env.codes.Set(ctx, inside))
	_, err := env.verification.Redeem(ctx, "in@x.com", "123456", models.VerificationCodeTypePasswordReset)
	assert.NoError(t, err)

	// One second past the window fails and deletes the record.
	outside := &models.VerificationCode{
		Code:      "123456",
		Email:     "out@x.com",
		Type:      models.VerificationCodeTypePasswordReset,
		CreatedAt: issuedAt,
		ExpiresAt: time.Now().Add(-time.Second),
	}
	require.NoError(t, env.codes.Set(ctx, outside))
	_, err = env.verification.Redeem(ctx, "out@x.com", "123456", models.VerificationCodeTypePasswordReset)
	assert.ErrorIs(t, err, domainErrors.ErrCodeExpired)

	_, err = env.codes.Get(ctx, "out@x.com")
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)
}

func TestVerification_NewIssueOverwritesAcrossFlows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.verification.Issue(ctx, "a@x.com", models.VerificationCodeTypePasswordReset, nil)
	require.NoError(t, err)
	second, err := env.verification.Issue(ctx, "a@x.com", models.VerificationCodeTypeMFAQRRecovery, nil)
	require.NoError(t, err)

	// The reset code is gone; only the recovery code redeems.
	if first.Code != second.Code {
		_, err = env.verification.Redeem(ctx, "a@x.com", first.Code, models.VerificationCodeTypePasswordReset)
		assert.Error(t, err)
	}
	_, err = env.verification.Redeem(ctx, "a@x.com", second.Code, models.VerificationCodeTypeMFAQRRecovery)
	assert.NoError(t, err)
}

func TestVerification_RedeemUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.verification.Redeem(context.Background(), "nobody@x.com", "123456", models.VerificationCodeTypeNone)
	assert.ErrorIs(t, err, domainErrors.ErrCodeNotFound)
}

func TestVerification_PendingUpdateRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	pending := &models.PendingUpdate{Username: "neo", PasswordHash: "$2a$10$hash"}
	record, err := env.verification.Issue(ctx, "a@x.com", models.VerificationCodeTypeNone, pending)
	require.NoError(t, err)

	got, err := env.verification.Redeem(ctx, "a@x.com", record.Code, models.VerificationCodeTypeNone)
	require.NoError(t, err)
	require.NotNil(t, got.PendingUpdate)
	assert.Equal(t, "neo", got.PendingUpdate.Username)
	assert.Equal(t, "$2a$10$hash", got.PendingUpdate.PasswordHash)
}

package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/repository"
	"github.com/Litzi-Otero/ReadyBook-back/internal/infrastructure/database"
	"github.com/Litzi-Otero/ReadyBook-back/internal/infrastructure/docstore"
	"github.com/Litzi-Otero/ReadyBook-back/internal/infrastructure/security"
	"github.com/Litzi-Otero/ReadyBook-back/internal/utils/keymutex"
)

// mailerStub records outbound mail instead of sending it.
type mailerStub struct {
	mu            sync.Mutex
	resetCodes    map[string]string
	recoveryCodes map[string]string
	profileCodes  map[string]string
	confirmations []string
	failSend      bool
}

func newMailerStub() *mailerStub {
	return &mailerStub{
		resetCodes:    make(map[string]string),
		recoveryCodes: make(map[string]string),
		profileCodes:  make(map[string]string),
	}
}

func (m *mailerStub) record(dst map[string]string, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSend {
		return errSendFailed
	}
	dst[to] = code
	return nil
}

func (m *mailerStub) SendPasswordResetCode(to, code string) error {
	return m.record(m.resetCodes, to, code)
}

func (m *mailerStub) SendMFARecoveryCode(to, code string) error {
	return m.record(m.recoveryCodes, to, code)
}

func (m *mailerStub) SendProfileUpdateCode(to, code string) error {
	return m.record(m.profileCodes, to, code)
}

func (m *mailerStub) SendReservationConfirmation(to string, _ *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSend {
		return errSendFailed
	}
	m.confirmations = append(m.confirmations, to)
	return nil
}

var errSendFailed = errors.New("smtp unavailable")

// publisherStub captures published events.
type publisherStub struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *publisherStub) Publish(event models.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *publisherStub) all() []models.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Event(nil), p.events...)
}

// testEnv wires the full service stack over a miniredis-backed store.
type testEnv struct {
	users        repository.UserRepository
	tempRegs     repository.TempRegistrationRepository
	codes        repository.VerificationCodeRepository
	reservations repository.ReservationRepository

	passwords *security.PasswordService
	totp      *security.TOTPService
	tokens    *security.TokenService

	mailer    *mailerStub
	publisher *publisherStub

	verification *VerificationService
	auth         *AuthService
	user         *UserService
	reservation  *ReservationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})

	store := docstore.New(rdb)
	logger := zap.NewNop()
	locks := keymutex.New()

	env := &testEnv{
		users:        database.NewUserRepository(store),
		tempRegs:     database.NewTempRegistrationRepository(store),
		codes:        database.NewVerificationCodeRepository(store),
		reservations: database.NewReservationRepository(store),
		passwords:    security.NewPasswordService(),
		totp:         security.NewTOTPService("EventApp"),
		mailer:       newMailerStub(),
		publisher:    &publisherStub{},
	}

	env.tokens, err = security.NewTokenService("test-signing-key", 0)
	require.NoError(t, err)

	env.verification = NewVerificationService(env.codes, locks, logger)
	env.auth = NewAuthService(env.users, env.tempRegs, env.verification,
		env.passwords, env.totp, env.tokens, env.mailer, logger)
	env.user = NewUserService(env.users, env.verification, env.passwords, env.mailer, logger)
	env.reservation = NewReservationService(env.reservations, env.publisher, env.mailer, locks, logger)

	return env
}

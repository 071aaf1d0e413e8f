package http

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Litzi-Otero/ReadyBook-back/internal/config"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/repository"
	"github.com/Litzi-Otero/ReadyBook-back/internal/events"
	"github.com/Litzi-Otero/ReadyBook-back/internal/infrastructure/database"
	"github.com/Litzi-Otero/ReadyBook-back/internal/infrastructure/docstore"
	"github.com/Litzi-Otero/ReadyBook-back/internal/infrastructure/security"
	"github.com/Litzi-Otero/ReadyBook-back/internal/service"
	"github.com/Litzi-Otero/ReadyBook-back/internal/utils/keymutex"
)

// recordingMailer keeps mailed codes addressable by recipient.
type recordingMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{codes: make(map[string]string)}
}

func (m *recordingMailer) set(to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[to] = code
	return nil
}

func (m *recordingMailer) code(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[to]
}

func (m *recordingMailer) SendPasswordResetCode(to, code string) error  { return m.set(to, code) }
func (m *recordingMailer) SendMFARecoveryCode(to, code string) error    { return m.set(to, code) }
func (m *recordingMailer) SendProfileUpdateCode(to, code string) error  { return m.set(to, code) }
func (m *recordingMailer) SendReservationConfirmation(string, *models.Reservation) error {
	return nil
}

// routerEnv exposes the wired router plus the seams the tests poke at.
type routerEnv struct {
	router   *gin.Engine
	mailer   *recordingMailer
	broker   *events.Broker
	tempRegs repository.TempRegistrationRepository
	users    repository.UserRepository
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	userRepo := database.NewUserRepository(store)
	tempRegRepo := database.NewTempRegistrationRepository(store)
	codeRepo := database.NewVerificationCodeRepository(store)
	reservationRepo := database.NewReservationRepository(store)

	tokens, err := security.NewTokenService("test-signing-key", 0)
	require.NoError(t, err)

	mailer := newRecordingMailer()
	broker := events.NewBroker(logger)

	verificationSvc := service.NewVerificationService(codeRepo, locks, logger)
	authSvc := service.NewAuthService(userRepo, tempRegRepo, verificationSvc,
		security.NewPasswordService(), security.NewTOTPService("EventApp"), tokens, mailer, logger)
	userSvc := service.NewUserService(userRepo, verificationSvc, security.NewPasswordService(), mailer, logger)
	reservationSvc := service.NewReservationService(reservationRepo, broker, mailer, locks, logger)

	cfg := &config.Config{}
	cfg.CORS.AllowedOrigin = "*"

	return &routerEnv{
		router:   SetupRouter(cfg, logger, authSvc, userSvc, reservationSvc, broker),
		mailer:   mailer,
		broker:   broker,
		tempRegs: tempRegRepo,
		users:    userRepo,
	}
}

func (e *routerEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func reserveBody(title, user string) gin.H {
	return gin.H{
		"bookId":        "bk-1",
		"title":         title,
		"reservedBy":    user,
		"reservedAt":    "2026-08-01T10:00:00Z",
		"reservedUntil": "2026-09-08T10:00:00Z",
		"email":         user + "@x.com",
	}
}

package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Litzi-Otero/ReadyBook-back/internal/config"
	"github.com/Litzi-Otero/ReadyBook-back/internal/events"
	httpHandler "github.com/Litzi-Otero/ReadyBook-back/internal/handler/http"
	"github.com/Litzi-Otero/ReadyBook-back/internal/infrastructure/database"
	"github.com/Litzi-Otero/ReadyBook-back/internal/infrastructure/docstore"
	"github.com/Litzi-Otero/ReadyBook-back/internal/infrastructure/notification"
	"github.com/Litzi-Otero/ReadyBook-back/internal/infrastructure/security"
	"github.com/Litzi-Otero/ReadyBook-back/internal/service"
	"github.com/Litzi-Otero/ReadyBook-back/internal/utils/keymutex"
)

// App owns the wired dependency graph and the HTTP server lifecycle.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	redis  *redis.Client
	server *http.Server
}

// New wires every layer together, bottom up.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	store := docstore.New(rdb)
	userRepo := database.NewUserRepository(store)
	tempRegRepo := database.NewTempRegistrationRepository(store)
	codeRepo := database.NewVerificationCodeRepository(store)
	reservationRepo := database.NewReservationRepository(store)

	passwords := security.NewPasswordService()
	totp := security.NewTOTPService(cfg.MFA.Issuer)
	tokens, err := security.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	mailer := notification.NewEmailNotifier(&cfg.SMTP, logger)
	broker := events.NewBroker(logger)
	locks := keymutex.New()

	verificationSvc := service.NewVerificationService(codeRepo, locks, logger)
	authSvc := service.NewAuthService(userRepo, tempRegRepo, verificationSvc,
		passwords, totp, tokens, mailer, logger)
	userSvc := service.NewUserService(userRepo, verificationSvc, passwords, mailer, logger)
	reservationSvc := service.NewReservationService(reservationRepo, broker, mailer, locks, logger)

	router := httpHandler.SetupRouter(cfg, logger, authSvc, userSvc, reservationSvc, broker)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		redis:  rdb,
		server: server,
	}, nil
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down gracefully.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		a.logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	if err := a.redis.Close(); err != nil {
		a.logger.Error("failed to close redis client", zap.Error(err))
	}

	a.logger.Info("server stopped")
	return nil
}

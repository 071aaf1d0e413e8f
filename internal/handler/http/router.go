package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Litzi-Otero/ReadyBook-back/internal/config"
	"github.com/Litzi-Otero/ReadyBook-back/internal/events"
	"github.com/Litzi-Otero/ReadyBook-back/internal/handler/http/middleware"
	"github.com/Litzi-Otero/ReadyBook-back/internal/service"
)

// SetupRouter builds the gin engine with middleware and every route.
func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	authService *service.AuthService,
	userService *service.UserService,
	reservationService *service.ReservationService,
	broker *events.Broker,
) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.CorsMiddleware(cfg.CORS.AllowedOrigin))

	authHandler := NewAuthHandler(logger, authService)
	userHandler := NewUserHandler(logger, userService)
	booksHandler := NewBooksHandler(logger, reservationService)
	eventsHandler := NewEventsHandler(logger, broker)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.GET("/events", eventsHandler.Stream)

	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/verify-mfa", authHandler.VerifyMFA)
		auth.POST("/password-reset-request", authHandler.RequestPasswordReset)
		auth.POST("/password-reset", authHandler.ResetPassword)
		auth.POST("/generate-mfa-qr", authHandler.GenerateMFAQR)
		auth.POST("/request-mfa-qr-code", authHandler.RequestMFAQRCode)
	}

	router.GET("/reserved-books", booksHandler.GetReservedBooks)
	books := router.Group("/books")
	{
		books.POST("/reserve", booksHandler.ReserveBook)
		books.GET("/reserved-user", booksHandler.GetReservedUserBooks)
		books.POST("/waiting-list", booksHandler.AddToWaitingList)
		books.GET("/waiting-list", booksHandler.GetWaitingListBooks)
		books.POST("/cancel-reservation", booksHandler.CancelReservation)
		books.POST("/cancel-waiting-list", booksHandler.CancelWaitingList)
	}

	users := router.Group("/users")
	{
		users.POST("", userHandler.Create)
		users.GET("", userHandler.List)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
		users.POST("/update-profile", userHandler.UpdateProfile)
		users.POST("/verify-profile-mfa", userHandler.VerifyProfileMFA)
		users.POST("/verify-register-mfa", authHandler.VerifyRegisterMFA)
	}

	return router
}

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/Litzi-Otero/ReadyBook-back/internal/domain/errors"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"
	"github.com/Litzi-Otero/ReadyBook-back/internal/service"
)

// AuthHandler handles the registration, login and account-recovery routes.
type AuthHandler struct {
	logger *zap.Logger
	auth   *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(logger *zap.Logger, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{
		logger: logger.Named("auth_handler"),
		auth:   auth,
	}
}

// Register starts a registration and returns the MFA enrollment QR.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Todos los campos son obligatorios")
		return
	}

	resp, err := h.auth.StartRegistration(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domainErrors.ErrEmailTaken) {
			respondWithError(c, http.StatusBadRequest, "El correo ya está registrado")
			return
		}
		h.logger.Error("failed to start registration", zap.Error(err))
		respondWithError(c, http.StatusInternalServerError, "Error interno en el servidor")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyRegisterMFA completes a pending registration with a TOTP code.
func (h *AuthHandler) VerifyRegisterMFA(c *gin.Context) {
	var req models.CompleteRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Email y código son requeridos")
		return
	}

	user, err := h.auth.CompleteRegistration(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrRegistrationNotFound):
			respondWithError(c, http.StatusBadRequest, "Registro temporal no encontrado o expirado")
		case errors.Is(err, domainErrors.ErrRegistrationExpired):
			respondWithError(c, http.StatusBadRequest, "El tiempo para verificar ha expirado")
		case errors.Is(err, domainErrors.ErrInvalidMFACode):
			respondWithError(c, http.StatusUnauthorized, "Código MFA incorrecto")
		default:
			h.logger.Error("failed to complete registration", zap.Error(err))
			respondWithError(c, http.StatusInternalServerError, "Error interno en el servidor")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Registro completado exitosamente",
		"email":    user.Email,
		"username": user.Username,
		"userId":   user.ID,
	})
}

// Login checks the first factor and returns an MFA challenge.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Todos los campos son obligatorios")
		return
	}

	challenge, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			respondWithError(c, http.StatusBadRequest, "Credenciales incorrectas")
		case errors.Is(err, domainErrors.ErrMFANotConfigured):
			respondWithError(c, http.StatusBadRequest, "MFA no configurado para este usuario")
		default:
			h.logger.Error("failed to log in", zap.Error(err))
			respondWithError(c, http.StatusInternalServerError, "Error interno en el servidor")
		}
		return
	}

	c.JSON(http.StatusOK, challenge)
}

// VerifyMFA checks the TOTP second factor and issues the session token.
func (h *AuthHandler) VerifyMFA(c *gin.Context) {
	var req models.VerifyMFARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Email y código son requeridos")
		return
	}

	result, err := h.auth.VerifyLoginMFA(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrUserNotFound):
			respondWithError(c, http.StatusBadRequest, "Usuario no encontrado")
		case errors.Is(err, domainErrors.ErrMFANotConfigured):
			respondWithError(c, http.StatusBadRequest, "MFA no configurado para este usuario")
		case errors.Is(err, domainErrors.ErrInvalidMFACode):
			respondWithError(c, http.StatusUnauthorized, "Código MFA incorrecto")
		default:
			h.logger.Error("failed to verify mfa", zap.Error(err))
			respondWithError(c, http.StatusInternalServerError, "Error interno en el servidor")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// RequestPasswordReset mails a reset code to a registered address.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req models.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Email es requerido")
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			respondWithError(c, http.StatusNotFound, "Usuario no encontrado")
			return
		}
		h.logger.Error("failed to request password reset", zap.Error(err))
		respondWithError(c, http.StatusInternalServerError, "Error interno en el servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Código de recuperación enviado al correo",
		"email":   req.Email,
	})
}

// ResetPassword redeems a reset code against a new password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Todos los campos son obligatorios")
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrCodeNotFound):
			respondWithError(c, http.StatusBadRequest, "Código no encontrado")
		case errors.Is(err, domainErrors.ErrCodeMismatch), errors.Is(err, domainErrors.ErrCodeTypeMismatch):
			respondWithError(c, http.StatusBadRequest, "Código incorrecto")
		case errors.Is(err, domainErrors.ErrCodeExpired):
			respondWithError(c, http.StatusBadRequest, "Código expirado")
		case errors.Is(err, domainErrors.ErrUserNotFound):
			respondWithError(c, http.StatusNotFound, "Usuario no encontrado")
		default:
			h.logger.Error("failed to reset password", zap.Error(err))
			respondWithError(c, http.StatusInternalServerError, "Error interno en el servidor")
		}
		return
	}

	respondWithMessage(c, http.StatusOK, "Contraseña restablecida exitosamente")
}

// RequestMFAQRCode mails a temporary code for MFA recovery.
func (h *AuthHandler) RequestMFAQRCode(c *gin.Context) {
	var req models.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Email es requerido")
		return
	}

	if err := h.auth.RequestMFAQRCode(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			respondWithError(c, http.StatusNotFound, "Usuario no encontrado")
			return
		}
		h.logger.Error("failed to request mfa recovery code", zap.Error(err))
		respondWithError(c, http.StatusInternalServerError, "Error interno en el servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Código temporal enviado al correo",
		"email":   req.Email,
	})
}

// GenerateMFAQR redeems a recovery code and returns a fresh QR payload.
func (h *AuthHandler) GenerateMFAQR(c *gin.Context) {
	var req models.GenerateMFAQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Email y código temporal son requeridos")
		return
	}

	qr, err := h.auth.GenerateMFAQR(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrCodeNotFound):
			respondWithError(c, http.StatusBadRequest, "Código temporal no encontrado")
		case errors.Is(err, domainErrors.ErrCodeMismatch), errors.Is(err, domainErrors.ErrCodeTypeMismatch):
			respondWithError(c, http.StatusBadRequest, "Código temporal incorrecto")
		case errors.Is(err, domainErrors.ErrCodeExpired):
			respondWithError(c, http.StatusBadRequest, "Código temporal expirado")
		case errors.Is(err, domainErrors.ErrUserNotFound):
			respondWithError(c, http.StatusNotFound, "Usuario no encontrado")
		default:
			h.logger.Error("failed to generate mfa qr", zap.Error(err))
			respondWithError(c, http.StatusInternalServerError, "Error interno en el servidor")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Código QR generado exitosamente",
		"qr":      qr,
		"email":   req.Email,
	})
}

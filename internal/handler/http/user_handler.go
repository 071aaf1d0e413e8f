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

// UserHandler handles user administration and self-service profile routes.
type UserHandler struct {
	logger *zap.Logger
	users  *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(logger *zap.Logger, users *service.UserService) *UserHandler {
	return &UserHandler{
		logger: logger.Named("user_handler"),
		users:  users,
	}
}

type createUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Age   int    `json:"age"`
}

type verifyProfileMFARequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// Create stores an admin-created user record.
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Todos los campos son obligatorios")
		return
	}

	if _, err := h.users.Create(c.Request.Context(), req.Name, req.Email, req.Age); err != nil {
		h.logger.Error("failed to create user", zap.Error(err))
		respondWithError(c, http.StatusInternalServerError, "Error al crear usuario")
		return
	}

	respondWithMessage(c, http.StatusCreated, "Usuario creado correctamente")
}

// List returns every user record.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		respondWithError(c, http.StatusInternalServerError, "Error al obtener usuarios")
		return
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}
	c.JSON(http.StatusOK, responses)
}

// Update applies an admin update to the user with the given id.
func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var update models.UserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondWithError(c, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	if err := h.users.Update(c.Request.Context(), id, update); err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			respondWithError(c, http.StatusNotFound, "Usuario no encontrado")
			return
		}
		h.logger.Error("failed to update user", zap.Error(err))
		respondWithError(c, http.StatusInternalServerError, "Error al actualizar usuario")
		return
	}

	respondWithMessage(c, http.StatusOK, "Usuario actualizado correctamente")
}

// Delete removes the user with the given id.
func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			respondWithError(c, http.StatusNotFound, "Usuario no encontrado")
			return
		}
		h.logger.Error("failed to delete user", zap.Error(err))
		respondWithError(c, http.StatusInternalServerError, "Error al eliminar usuario")
		return
	}

	respondWithMessage(c, http.StatusOK, "Usuario eliminado")
}

// UpdateProfile stages a self-service profile change and mails the
// verification code.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Todos los campos son obligatorios")
		return
	}

	userID, err := h.users.RequestProfileUpdate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			respondWithError(c, http.StatusBadRequest, "Usuario no encontrado")
			return
		}
		h.logger.Error("failed to request profile update", zap.Error(err))
		respondWithError(c, http.StatusInternalServerError, "Error interno en el servidor")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Código MFA enviado al correo",
		"email":   req.Email,
		"userId":  userID,
	})
}

// VerifyProfileMFA redeems the mailed code and applies the staged change.
func (h *UserHandler) VerifyProfileMFA(c *gin.Context) {
	var req verifyProfileMFARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Email y código son requeridos")
		return
	}

	if err := h.users.ConfirmProfileUpdate(c.Request.Context(), req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrCodeNotFound):
			respondWithError(c, http.StatusBadRequest, "Código no encontrado")
		case errors.Is(err, domainErrors.ErrCodeMismatch), errors.Is(err, domainErrors.ErrCodeTypeMismatch):
			respondWithError(c, http.StatusBadRequest, "Código incorrecto")
		case errors.Is(err, domainErrors.ErrCodeExpired):
			respondWithError(c, http.StatusBadRequest, "Código expirado")
		case errors.Is(err, domainErrors.ErrUserNotFound):
			respondWithError(c, http.StatusBadRequest, "Usuario no encontrado")
		default:
			h.logger.Error("failed to confirm profile update", zap.Error(err))
			respondWithError(c, http.StatusInternalServerError, "Error interno en el servidor")
		}
		return
	}

	respondWithMessage(c, http.StatusOK, "Perfil actualizado exitosamente")
}

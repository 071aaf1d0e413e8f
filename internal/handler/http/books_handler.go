package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/Litzi-Otero/ReadyBook-back/internal/domain/errors"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"
	"github.com/Litzi-Otero/ReadyBook-back/internal/service"
)

// BooksHandler handles the reservation and waiting-list routes.
type BooksHandler struct {
	logger       *zap.Logger
	reservations *service.ReservationService
}

// NewBooksHandler creates a new BooksHandler.
func NewBooksHandler(logger *zap.Logger, reservations *service.ReservationService) *BooksHandler {
	return &BooksHandler{
		logger:       logger.Named("books_handler"),
		reservations: reservations,
	}
}

// GetReservedBooks returns the reservations held on a title.
func (h *BooksHandler) GetReservedBooks(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		respondWithError(c, http.StatusBadRequest, "title es requerido")
		return
	}

	books, err := h.reservations.ReservedByTitle(c.Request.Context(), title)
	if err != nil {
		h.logger.Error("failed to fetch reserved books", zap.Error(err))
		respondWithError(c, http.StatusInternalServerError, "Error interno en el servidor")
		return
	}

	c.JSON(http.StatusOK, books)
}

// GetReservedUserBooks returns a user's reservations, optionally filtered by title.
func (h *BooksHandler) GetReservedUserBooks(c *gin.Context) {
	reservedBy := c.Query("reservedBy")
	if reservedBy == "" {
		respondWithError(c, http.StatusBadRequest, "reservedBy es requerido")
		return
	}

	books, err := h.reservations.ReservedByUser(c.Request.Context(), reservedBy, c.Query("title"))
	if err != nil {
		h.logger.Error("failed to fetch user reservations", zap.Error(err))
		respondWithError(c, http.StatusInternalServerError, "Error interno en el servidor")
		return
	}

	c.JSON(http.StatusOK, books)
}

// GetWaitingListBooks returns the reservations a user is queued behind.
func (h *BooksHandler) GetWaitingListBooks(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		respondWithError(c, http.StatusBadRequest, "userId es requerido")
		return
	}

	books, err := h.reservations.WaitlistedByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to fetch waiting list books", zap.Error(err))
		respondWithError(c, http.StatusInternalServerError, "Error interno en el servidor")
		return
	}

	c.JSON(http.StatusOK, books)
}

// ReserveBook places an exclusive hold on a title.
func (h *BooksHandler) ReserveBook(c *gin.Context) {
	var req models.ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	if _, err := h.reservations.Reserve(c.Request.Context(), req); err != nil {
		var conflict *domainErrors.ReservedByOtherError
		switch {
		case errors.Is(err, domainErrors.ErrAlreadyReservedBySelf):
			respondWithError(c, http.StatusBadRequest, "Ya has apartado este libro")
		case errors.As(err, &conflict):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":         "El libro ya está reservado por otro usuario",
				"reservedUntil": conflict.ReservedUntil.Format(time.RFC3339),
			})
		default:
			h.logger.Error("failed to reserve book", zap.Error(err))
			respondWithError(c, http.StatusInternalServerError, "Error interno en el servidor")
		}
		return
	}

	respondWithMessage(c, http.StatusOK, "Libro apartado exitosamente")
}

// AddToWaitingList queues a user behind the current hold on a title.
func (h *BooksHandler) AddToWaitingList(c *gin.Context) {
	var req models.JoinWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Cuerpo de la petición inválido")
		return
	}

	if err := h.reservations.JoinWaitlist(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrBookNotReserved):
			respondWithError(c, http.StatusNotFound, "El libro no está reservado actualmente")
		case errors.Is(err, domainErrors.ErrOwnReservation):
			respondWithError(c, http.StatusBadRequest, "Ya tienes este libro reservado")
		case errors.Is(err, domainErrors.ErrAlreadyOnWaitlist):
			respondWithError(c, http.StatusBadRequest, "Ya estás en la lista de espera para este libro")
		default:
			h.logger.Error("failed to join waiting list", zap.Error(err))
			respondWithError(c, http.StatusInternalServerError, "Error interno en el servidor")
		}
		return
	}

	respondWithMessage(c, http.StatusOK, "Te has añadido a la lista de espera exitosamente")
}

// CancelReservation releases a hold the requester owns.
func (h *BooksHandler) CancelReservation(c *gin.Context) {
	var req models.CancelReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "reservationId y userId son requeridos")
		return
	}

	if err := h.reservations.Cancel(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrReservationNotFound):
			respondWithError(c, http.StatusNotFound, "Reserva no encontrada")
		case errors.Is(err, domainErrors.ErrNotReservationOwner):
			respondWithError(c, http.StatusForbidden, "No tienes permiso para cancelar esta reserva")
		case errors.Is(err, domainErrors.ErrReservationExpired):
			respondWithError(c, http.StatusBadRequest, "No se puede cancelar una reserva ya vencida")
		default:
			h.logger.Error("failed to cancel reservation", zap.Error(err))
			respondWithError(c, http.StatusInternalServerError, "Error interno en el servidor")
		}
		return
	}

	respondWithMessage(c, http.StatusOK, "Reserva cancelada exitosamente")
}

// CancelWaitingList removes a user from a reservation's waiting list.
func (h *BooksHandler) CancelWaitingList(c *gin.Context) {
	var req models.LeaveWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "reservationId y userId son requeridos")
		return
	}

	if err := h.reservations.LeaveWaitlist(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrReservationNotFound):
			respondWithError(c, http.StatusNotFound, "Reserva no encontrada")
		case errors.Is(err, domainErrors.ErrNotOnWaitlist):
			respondWithError(c, http.StatusNotFound, "No estás en la lista de espera para este libro")
		default:
			h.logger.Error("failed to leave waiting list", zap.Error(err))
			respondWithError(c, http.StatusInternalServerError, "Error interno en el servidor")
		}
		return
	}

	respondWithMessage(c, http.StatusOK, "Cancelado de la lista de espera exitosamente")
}

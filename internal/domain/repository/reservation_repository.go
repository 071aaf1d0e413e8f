package repository

import (
	"context"

	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"
)

// ReservationRepository provides access to the reserved_books collection and
// the per-reservation waiting_list sub-collections.
type ReservationRepository interface {
	// Create stores a new reservation and returns the store-assigned id.
	Create(ctx context.Context, r *models.Reservation) (string, error)
	// FindByID returns the reservation with the given id, or errors.ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.Reservation, error)
	// FindByTitle returns every reservation document for the title, expired
	// ones included.
	FindByTitle(ctx context.Context, title string) ([]models.Reservation, error)
	// FindByUser returns reservations held by the user, optionally narrowed
	// to a title.
	FindByUser(ctx context.Context, userID, title string) ([]models.Reservation, error)
	// All returns every reservation.
	All(ctx context.Context) ([]models.Reservation, error)
	// Delete removes the reservation with the given id, or errors.ErrNotFound.
	Delete(ctx context.Context, id string) error

	// AddWaitlistEntry appends an entry to the reservation's waiting list.
	AddWaitlistEntry(ctx context.Context, reservationID string, entry *models.WaitlistEntry) (string, error)
	// FindWaitlistEntry returns the user's entry on the reservation's waiting
	// list, or errors.ErrNotFound.
	FindWaitlistEntry(ctx context.Context, reservationID, userID string) (*models.WaitlistEntry, error)
	// DeleteWaitlistEntry removes an entry from the reservation's waiting list.
	DeleteWaitlistEntry(ctx context.Context, reservationID, entryID string) error
}

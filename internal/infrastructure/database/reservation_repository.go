package database

import (
	"context"
	"errors"
	"fmt"

	domainErrors "github.com/Litzi-Otero/ReadyBook-back/internal/domain/errors"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/repository"
	"github.com/Litzi-Otero/ReadyBook-back/internal/infrastructure/docstore"
)

const (
	reservationsCollection = "reserved_books"
	waitlistSubCollection  = "waiting_list"
)

type docReservationRepository struct {
	coll *docstore.Collection
}

// NewReservationRepository creates a ReservationRepository over the document store.
func NewReservationRepository(store *docstore.Store) repository.ReservationRepository {
	return &docReservationRepository{coll: store.Collection(reservationsCollection)}
}

func (r *docReservationRepository) Create(ctx context.Context, res *models.Reservation) (string, error) {
	id, err := r.coll.Add(ctx, res)
	if err != nil {
		return "", fmt.Errorf("failed to create reservation: %w", err)
	}
	res.ID = id
	return id, nil
}

func (r *docReservationRepository) FindByID(ctx context.Context, id string) (*models.Reservation, error) {
	var res models.Reservation
	if err := r.coll.Get(ctx, id, &res); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation by id: %w", err)
	}
	res.ID = id
	return &res, nil
}

func (r *docReservationRepository) FindByTitle(ctx context.Context, title string) ([]models.Reservation, error) {
	docs, err := r.coll.FindByField(ctx, "title", title)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations by title: %w", err)
	}
	return decodeReservations(docs)
}

func (r *docReservationRepository) FindByUser(ctx context.Context, userID, title string) ([]models.Reservation, error) {
	docs, err := r.coll.FindByField(ctx, "reservedBy", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservations by user: %w", err)
	}
	all, err := decodeReservations(docs)
	if err != nil {
		return nil, err
	}
	if title == "" {
		return all, nil
	}
	filtered := make([]models.Reservation, 0, len(all))
	for _, res := range all {
		if res.Title == title {
			filtered = append(filtered, res)
		}
	}
	return filtered, nil
}

func (r *docReservationRepository) All(ctx context.Context) ([]models.Reservation, error) {
	docs, err := r.coll.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return decodeReservations(docs)
}

func (r *docReservationRepository) Delete(ctx context.Context, id string) error {
	if err := r.coll.Delete(ctx, id); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return domainErrors.ErrNotFound
		}
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	return nil
}

func (r *docReservationRepository) AddWaitlistEntry(ctx context.Context, reservationID string, entry *models.WaitlistEntry) (string, error) {
	id, err := r.coll.Sub(reservationID, waitlistSubCollection).Add(ctx, entry)
	if err != nil {
		return "", fmt.Errorf("failed to add waitlist entry: %w", err)
	}
	entry.ID = id
	return id, nil
}

func (r *docReservationRepository) FindWaitlistEntry(ctx context.Context, reservationID, userID string) (*models.WaitlistEntry, error) {
	docs, err := r.coll.Sub(reservationID, waitlistSubCollection).FindByField(ctx, "userId", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find waitlist entry: %w", err)
	}
	if len(docs) == 0 {
		return nil, domainErrors.ErrNotFound
	}
	var entry models.WaitlistEntry
	if err := docs[0].Decode(&entry); err != nil {
		return nil, fmt.Errorf("failed to decode waitlist entry: %w", err)
	}
	entry.ID = docs[0].ID
	return &entry, nil
}

func (r *docReservationRepository) DeleteWaitlistEntry(ctx context.Context, reservationID, entryID string) error {
	if err := r.coll.Sub(reservationID, waitlistSubCollection).Delete(ctx, entryID); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return domainErrors.ErrNotFound
		}
		return fmt.Errorf("failed to delete waitlist entry: %w", err)
	}
	return nil
}

func decodeReservations(docs []docstore.Document) ([]models.Reservation, error) {
	reservations := make([]models.Reservation, 0, len(docs))
	for _, doc := range docs {
		var res models.Reservation
		if err := doc.Decode(&res); err != nil {
			return nil, fmt.Errorf("failed to decode reservation: %w", err)
		}
		res.ID = doc.ID
		reservations = append(reservations, res)
	}
	return reservations, nil
}

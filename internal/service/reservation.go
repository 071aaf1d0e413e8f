package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	domainErrors "github.com/Litzi-Otero/ReadyBook-back/internal/domain/errors"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/repository"
	"github.com/Litzi-Otero/ReadyBook-back/internal/utils/keymutex"
)

// ReservationService implements the exclusive book-hold lifecycle and the
// per-title waiting list. Check-then-write sequences are serialized per title
// through an in-process keyed mutex, since the store offers no transaction
// spanning the read and the write.
//
// Known, deliberate gaps carried over from the product behavior: cancelling a
// reservation does not promote the next waiter, and expired reservations are
// never swept, so a stale document keeps blocking fresh reservations of the
// same title until cancelled... which expiry itself forbids.
type ReservationService struct {
	reservations repository.ReservationRepository
	publisher    Publisher
	mailer       Mailer
	locks        *keymutex.KeyMutex
	logger       *zap.Logger
}

// NewReservationService creates a ReservationService.
func NewReservationService(
	reservations repository.ReservationRepository,
	publisher Publisher,
	mailer Mailer,
	locks *keymutex.KeyMutex,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		publisher:    publisher,
		mailer:       mailer,
		locks:        locks,
		logger:       logger.Named("reservation_service"),
	}
}

// Reserve places an exclusive hold on the title. Any existing reservation
// document for the title blocks the request, expired or not. On success a
// newBookReservation event is published and, when the request carries an
// email, a confirmation is attempted; its failure never rolls the
// reservation back.
func (s *ReservationService) Reserve(ctx context.Context, req models.ReserveRequest) (*models.Reservation, error) {
	s.locks.Lock(req.Title)
	defer s.locks.Unlock(req.Title)

	existing, err := s.reservations.FindByTitle(ctx, req.Title)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		held := existing[0]
		if held.ReservedBy == req.ReservedBy {
			return nil, domainErrors.ErrAlreadyReservedBySelf
		}
		return nil, &domainErrors.ReservedByOtherError{ReservedUntil: held.ReservedUntil}
	}

	reservation := &models.Reservation{
		BookID:        req.BookID,
		Title:         req.Title,
		Authors:       req.Authors,
		Thumbnail:     req.Thumbnail,
		Description:   req.Description,
		ReservedBy:    req.ReservedBy,
		ReservedAt:    req.ReservedAt,
		ReservedUntil: req.ReservedUntil,
	}
	if _, err := s.reservations.Create(ctx, reservation); err != nil {
		return nil, err
	}

	s.publisher.Publish(models.Event{
		Event: models.EventNewBookReservation,
		Data: models.ReservationCreatedPayload{
			Title:         reservation.Title,
			ReservedAt:    reservation.ReservedAt,
			ReservedUntil: reservation.ReservedUntil,
		},
	})

	if req.Email != "" {
		if err := s.mailer.SendReservationConfirmation(req.Email, reservation); err != nil {
			s.logger.Error("failed to send reservation confirmation",
				zap.String("email", req.Email), zap.Error(err))
		}
	} else {
		s.logger.Warn("no email provided for reservation confirmation",
			zap.String("title", req.Title))
	}

	s.logger.Info("book reserved",
		zap.String("title", reservation.Title), zap.String("user_id", reservation.ReservedBy))
	return reservation, nil
}

// Cancel deletes a reservation the requester owns. Expired reservations
// cannot be cancelled.
func (s *ReservationService) Cancel(ctx context.Context, req models.CancelReservationRequest) error {
	reservation, err := s.reservations.FindByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrReservationNotFound
		}
		return err
	}

	s.locks.Lock(reservation.Title)
	defer s.locks.Unlock(reservation.Title)

	if reservation.ReservedBy != req.UserID {
		return domainErrors.ErrNotReservationOwner
	}
	if reservation.Expired(time.Now()) {
		return domainErrors.ErrReservationExpired
	}

	if err := s.reservations.Delete(ctx, req.ReservationID); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrReservationNotFound
		}
		return err
	}

	s.publisher.Publish(models.Event{
		Event: models.EventReservationCancelled,
		Data:  models.ReservationCancelledPayload{Title: reservation.Title},
	})

	s.logger.Info("reservation cancelled",
		zap.String("title", reservation.Title), zap.String("user_id", req.UserID))
	return nil
}

// JoinWaitlist queues the user behind the current hold on the title.
func (s *ReservationService) JoinWaitlist(ctx context.Context, req models.JoinWaitlistRequest) error {
	s.locks.Lock(req.Title)
	defer s.locks.Unlock(req.Title)

	reservations, err := s.reservations.FindByTitle(ctx, req.Title)
	if err != nil {
		return err
	}
	if len(reservations) == 0 {
		return domainErrors.ErrBookNotReserved
	}

	reservation := reservations[0]
	if reservation.ReservedBy == req.UserID {
		return domainErrors.ErrOwnReservation
	}

	_, err = s.reservations.FindWaitlistEntry(ctx, reservation.ID, req.UserID)
	if err == nil {
		return domainErrors.ErrAlreadyOnWaitlist
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return err
	}

	entry := &models.WaitlistEntry{UserID: req.UserID, AddedAt: time.Now()}
	if _, err := s.reservations.AddWaitlistEntry(ctx, reservation.ID, entry); err != nil {
		return err
	}

	s.logger.Info("joined waiting list",
		zap.String("title", req.Title), zap.String("user_id", req.UserID))
	return nil
}

// LeaveWaitlist removes the user's entry from the reservation's waiting list.
func (s *ReservationService) LeaveWaitlist(ctx context.Context, req models.LeaveWaitlistRequest) error {
	reservation, err := s.reservations.FindByID(ctx, req.ReservationID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrReservationNotFound
		}
		return err
	}

	entry, err := s.reservations.FindWaitlistEntry(ctx, reservation.ID, req.UserID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrNotOnWaitlist
		}
		return err
	}

	if err := s.reservations.DeleteWaitlistEntry(ctx, reservation.ID, entry.ID); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return domainErrors.ErrNotOnWaitlist
		}
		return err
	}

	s.logger.Info("left waiting list",
		zap.String("title", reservation.Title), zap.String("user_id", req.UserID))
	return nil
}

// ReservedByTitle returns every reservation document for the title.
func (s *ReservationService) ReservedByTitle(ctx context.Context, title string) ([]models.Reservation, error) {
	return s.reservations.FindByTitle(ctx, title)
}

// ReservedByUser returns reservations held by the user, optionally narrowed
// to a title.
func (s *ReservationService) ReservedByUser(ctx context.Context, userID, title string) ([]models.Reservation, error) {
	return s.reservations.FindByUser(ctx, userID, title)
}

// WaitlistedByUser returns the reservations the user is queued behind. This
// fans out over every reservation's waiting list, which is linear in the
// number of reservations.
func (s *ReservationService) WaitlistedByUser(ctx context.Context, userID string) ([]models.WaitlistedBook, error) {
	reservations, err := s.reservations.All(ctx)
	if err != nil {
		return nil, err
	}

	books := make([]models.WaitlistedBook, 0)
	for _, reservation := range reservations {
		entry, err := s.reservations.FindWaitlistEntry(ctx, reservation.ID, userID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		books = append(books, models.WaitlistedBook{
			Reservation:  reservation,
			WaitingSince: entry.AddedAt,
		})
	}
	return books, nil
}

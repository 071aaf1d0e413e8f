package models

import "time"

// ReserveRequest asks for an exclusive hold on a title.
type ReserveRequest struct {
	BookID        string    `json:"bookId"`
	Title         string    `json:"title" binding:"required"`
	Authors       []string  `json:"authors"`
	Thumbnail     string    `json:"thumbnail"`
	Description   string    `json:"description"`
	ReservedBy    string    `json:"reservedBy" binding:"required"`
	ReservedAt    time.Time `json:"reservedAt" binding:"required"`
	ReservedUntil time.Time `json:"reservedUntil" binding:"required"`
	// Email, when present, receives a confirmation message. Delivery failure
	// does not fail the reservation.
	Email string `json:"email"`
}

// CancelReservationRequest cancels a hold the requester owns.
type CancelReservationRequest struct {
	ReservationID string `json:"reservationId" binding:"required"`
	UserID        string `json:"userId" binding:"required"`
}

// JoinWaitlistRequest queues the user behind a held title.
type JoinWaitlistRequest struct {
	Title  string `json:"title" binding:"required"`
	UserID string `json:"userId" binding:"required"`
}

// LeaveWaitlistRequest removes the user from a reservation's waiting list.
type LeaveWaitlistRequest struct {
	ReservationID string `json:"reservationId" binding:"required"`
	UserID        string `json:"userId" binding:"required"`
}

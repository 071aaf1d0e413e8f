package models

import "time"

// Event names pushed to live subscribers.
const (
	EventNewBookReservation   = "newBookReservation"
	EventReservationCancelled = "reservationCancelled"
)

// Event is a single frame on the live event stream.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// ReservationCreatedPayload accompanies EventNewBookReservation.
type ReservationCreatedPayload struct {
	Title         string    `json:"title"`
	ReservedAt    time.Time `json:"reservedAt"`
	ReservedUntil time.Time `json:"reservedUntil"`
}

// ReservationCancelledPayload accompanies EventReservationCancelled.
type ReservationCancelledPayload struct {
	Title string `json:"title"`
}

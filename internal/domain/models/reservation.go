package models

import "time"

// Reservation is an exclusive, time-boxed hold of a book title by one user,
// stored in the "reserved_books" collection. Uniqueness is enforced by title:
// any existing document with the same title blocks a new reservation, whether
// or not it is past its reservedUntil. Expired reservations are not swept.
type Reservation struct {
	ID            string    `json:"id,omitempty"`
	BookID        string    `json:"bookId"`
	Title         string    `json:"title"`
	Authors       []string  `json:"authors,omitempty"`
	Thumbnail     string    `json:"thumbnail,omitempty"`
	Description   string    `json:"description,omitempty"`
	ReservedBy    string    `json:"reservedBy"`
	ReservedAt    time.Time `json:"reservedAt"`
	ReservedUntil time.Time `json:"reservedUntil"`
}

// Expired reports whether the hold is past its return date at the given instant.
func (r *Reservation) Expired(now time.Time) bool {
	return now.After(r.ReservedUntil)
}

// WaitlistEntry records a user's interest in a currently-held title. Entries
// live in a sub-collection of the reservation; at most one per user.
type WaitlistEntry struct {
	ID      string    `json:"id,omitempty"`
	UserID  string    `json:"userId"`
	AddedAt time.Time `json:"addedAt"`
}

// WaitlistedBook is a reservation a user is queued behind, with the instant
// they joined the queue.
type WaitlistedBook struct {
	Reservation
	WaitingSince time.Time `json:"waitingSince"`
}

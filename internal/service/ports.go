package service

import "github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"

// Mailer is the outbound email capability the services depend on.
// The SMTP implementation lives in infrastructure/notification.
type Mailer interface {
	SendPasswordResetCode(to, code string) error
	SendMFARecoveryCode(to, code string) error
	SendProfileUpdateCode(to, code string) error
	SendReservationConfirmation(to string, r *models.Reservation) error
}

// Publisher pushes events to live subscribers. Delivery is best-effort.
type Publisher interface {
	Publish(event models.Event)
}

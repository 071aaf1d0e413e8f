package notification

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/Litzi-Otero/ReadyBook-back/internal/config"
	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"
)

// EmailNotifier sends transactional mail over SMTP.
type EmailNotifier struct {
	cfg    *config.SMTPConfig
	logger *zap.Logger
}

// NewEmailNotifier creates an EmailNotifier.
func NewEmailNotifier(cfg *config.SMTPConfig, logger *zap.Logger) *EmailNotifier {
	return &EmailNotifier{cfg: cfg, logger: logger.Named("email_notifier")}
}

func (n *EmailNotifier) configured() bool {
	return n.cfg.Host != "" && n.cfg.User != "" && n.cfg.FromEmail != ""
}

func (n *EmailNotifier) send(to, subject, contentType, body string) error {
	if !n.configured() {
		n.logger.Warn("smtp config missing, skipping notification", zap.String("subject", subject))
		return nil
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("empty recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody(contentType, body)

	d := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.User, n.cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	n.logger.Info("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// SendPasswordResetCode mails a password recovery code.
func (n *EmailNotifier) SendPasswordResetCode(to, code string) error {
	body := fmt.Sprintf("Tu código para restablecer la contraseña es: %s. Expira en 5 minutos.", code)
	return n.send(to, "Código de recuperación de contraseña", "text/plain", body)
}

// SendMFARecoveryCode mails a temporary code for recovering the MFA QR.
func (n *EmailNotifier) SendMFARecoveryCode(to, code string) error {
	body := fmt.Sprintf("Se ha solicitado un código QR para recuperar tu MFA. Usa este código temporal: %s. "+
		"Expira en 5 minutos. Si no solicitaste esto, por favor contacta al soporte.", code)
	return n.send(to, "Código para Recuperar tu MFA", "text/plain", body)
}

// SendProfileUpdateCode mails the code that confirms a pending profile update.
func (n *EmailNotifier) SendProfileUpdateCode(to, code string) error {
	body := fmt.Sprintf("Tu código de verificación es: %s. Expira en 5 minutos.", code)
	return n.send(to, "Código de verificación para actualizar perfil", "text/plain", body)
}

// SendReservationConfirmation mails the reservation summary to the holder.
func (n *EmailNotifier) SendReservationConfirmation(to string, r *models.Reservation) error {
	body := fmt.Sprintf(`
      <h2>¡Reserva Confirmada!</h2>
      <p>Hola,</p>
      <p>Has reservado el siguiente libro:</p>
      <ul>
        <li><strong>Título:</strong> %s</li>
        <li><strong>Fecha de Retiro:</strong> %s</li>
        <li><strong>Fecha de Entrega:</strong> %s</li>
      </ul>
      <p>Por favor, recoge tu libro antes de la fecha de entrega.</p>
      <p>Gracias,<br>Equipo de la Biblioteca ReadyBook</p>`,
		r.Title, r.ReservedAt.Format("02/01/2006"), r.ReservedUntil.Format("02/01/2006"))
	return n.send(to, "Confirmación de Reserva de Libro", "text/html", body)
}

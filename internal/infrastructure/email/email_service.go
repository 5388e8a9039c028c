package email

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	config "github.com/glambooking/glambooking-api/configs"
	"github.com/glambooking/glambooking-api/internal/core/ports"
)

// EmailService sends transactional email through SendGrid.
type EmailService struct {
	config *config.EmailConfig
	logger *logrus.Logger
	client *sendgrid.Client
}

// NewEmailService returns a SendGrid-backed sender, or a log-only sender when no API
// key is configured.
func NewEmailService(cfg *config.EmailConfig, logger *logrus.Logger) ports.EmailService {
	if cfg.SendGridAPIKey == "" {
		logger.Warn("SENDGRID_API_KEY not set; booking confirmations will only be logged")
		return &LogEmailService{logger: logger}
	}

	return &EmailService{
		config: cfg,
		logger: logger,
		client: sendgrid.NewSendClient(cfg.SendGridAPIKey),
	}
}

// SendBookingConfirmation tells a client their booking is confirmed. The start time
// is rendered in the salon's timezone.
func (e *EmailService) SendBookingConfirmation(ctx context.Context, msg *ports.BookingConfirmation) error {
	subject := fmt.Sprintf("Booking confirmed - %s", msg.SalonName)
	return e.sendEmail(ctx, msg.To, subject, confirmationText(msg, e.config.CompanyName))
}

func (e *EmailService) sendEmail(ctx context.Context, to, subject, plainContent string) error {
	from := mail.NewEmail(e.config.FromName, e.config.FromEmail)
	recipient := mail.NewEmail("", to)

	message := mail.NewSingleEmailPlainText(from, subject, recipient, plainContent)

	response, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		e.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
			"error":   err,
		}).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 300 {
		e.logger.WithFields(logrus.Fields{
			"to":          to,
			"status_code": response.StatusCode,
		}).Error("SendGrid rejected email")
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}

	e.logger.WithFields(logrus.Fields{
		"to":          to,
		"subject":     subject,
		"status_code": response.StatusCode,
	}).Info("Email sent successfully")

	return nil
}

// LogEmailService records confirmations in the log instead of sending them.
type LogEmailService struct {
	logger *logrus.Logger
}

func (l *LogEmailService) SendBookingConfirmation(ctx context.Context, msg *ports.BookingConfirmation) error {
	l.logger.WithFields(logrus.Fields{
		"to":      msg.To,
		"salon":   msg.SalonName,
		"service": msg.ServiceName,
		"when":    formatStart(msg.StartsAt, msg.Timezone),
	}).Info("booking confirmation (email disabled)")
	return nil
}

func confirmationText(msg *ports.BookingConfirmation, company string) string {
	name := msg.ClientName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("Hi %s,\n\nYour booking for %s at %s is confirmed for %s.\n\nSee you soon!\n\n%s",
		name, msg.ServiceName, msg.SalonName, formatStart(msg.StartsAt, msg.Timezone), company)
}

// formatStart falls back to UTC when the salon's timezone is unknown.
func formatStart(t time.Time, tz string) string {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return t.In(loc).Format("Monday, January 2, 2006 at 15:04 MST")
}

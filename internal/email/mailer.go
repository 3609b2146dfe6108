package email

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/domain"
)

// Config holds the SMTP settings for outgoing mail.
type Config struct {
	Host       string
	Port       int
	Username   string
	Password   string
	FromName   string
	FromEmail  string
	OwnerEmail string
}

// Mailer sends the transactional onboarding mails: the contract
// confirmation to the client and the notification to the owner.
type Mailer struct {
	cfg    Config
	client *mail.Client
	logger *zap.Logger
}

// NewMailer creates an SMTP mailer.
func NewMailer(cfg Config, logger *zap.Logger) (*Mailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return &Mailer{cfg: cfg, client: client, logger: logger}, nil
}

// SendClientConfirmation mails the signed contract to the client.
func (m *Mailer) SendClientConfirmation(ctx context.Context, submission *domain.Submission, contractPDF []byte) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.FromEmail); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(submission.ClientEmail); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject("Ihr Produktionsvertrag mit emmotion")
	msg.SetBodyString(mail.TypeTextPlain, clientConfirmationBody(submission))
	if len(contractPDF) > 0 {
		msg.AttachReader("produktionsvertrag.pdf", bytes.NewReader(contractPDF))
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send client confirmation: %w", err)
	}
	m.logger.Info("Sent client confirmation mail",
		zap.String("submission_id", submission.ID.String()),
		zap.String("recipient", submission.ClientEmail))
	return nil
}

// SendOwnerNotification mails the owner about a new signed contract.
// Reply-To points at the client so the owner can answer directly.
func (m *Mailer) SendOwnerNotification(ctx context.Context, submission *domain.Submission, contractPDF []byte) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.FromEmail); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(m.cfg.OwnerEmail); err != nil {
		return fmt.Errorf("invalid owner address: %w", err)
	}
	if err := msg.ReplyTo(submission.ClientEmail); err != nil {
		return fmt.Errorf("invalid reply-to address: %w", err)
	}
	msg.Subject(fmt.Sprintf("Neue Vertragsunterzeichnung: %s", submission.ProjectName))
	msg.SetBodyString(mail.TypeTextPlain, ownerNotificationBody(submission))
	if len(contractPDF) > 0 {
		msg.AttachReader("produktionsvertrag.pdf", bytes.NewReader(contractPDF))
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send owner notification: %w", err)
	}
	m.logger.Info("Sent owner notification mail",
		zap.String("submission_id", submission.ID.String()))
	return nil
}

// SendCorrectionNotice mails the corrected contract to the client.
func (m *Mailer) SendCorrectionNotice(ctx context.Context, submission *domain.Submission, reason string, contractPDF []byte) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.FromEmail); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(submission.ClientEmail); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject("Aktualisierter Produktionsvertrag")
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Guten Tag %s\n\n"+
			"Ihr Produktionsvertrag für «%s» wurde angepasst:\n%s\n\n"+
			"Die aktualisierte Fassung finden Sie im Anhang.\n\n"+
			"Freundliche Grüsse\nemmotion",
		submission.ClientName, submission.ProjectName, reason))
	if len(contractPDF) > 0 {
		msg.AttachReader("produktionsvertrag.pdf", bytes.NewReader(contractPDF))
	}

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send correction notice: %w", err)
	}
	return nil
}

func clientConfirmationBody(submission *domain.Submission) string {
	return fmt.Sprintf(
		"Guten Tag %s\n\n"+
			"Vielen Dank für Ihr Vertrauen. Ihr Produktionsvertrag für «%s» ist bei uns "+
			"eingegangen und im Anhang als PDF beigelegt.\n\n"+
			"Gesamtpreis: CHF %d\n"+
			"Anzahlung (%d%%): CHF %d\n"+
			"Restbetrag: CHF %d\n\n"+
			"Die Rechnung für die Anzahlung erhalten Sie separat. Wir melden uns innert "+
			"zwei Arbeitstagen zur Terminplanung.\n\n"+
			"Freundliche Grüsse\nemmotion",
		submission.ClientName,
		submission.ProjectName,
		submission.TotalPrice,
		submission.DepositPercentage,
		submission.DepositAmount,
		submission.RemainingAmount,
	)
}

func ownerNotificationBody(submission *domain.Submission) string {
	return fmt.Sprintf(
		"Neue Vertragsunterzeichnung\n\n"+
			"Projekt: %s\n"+
			"Leistung: %s\n"+
			"Kunde: %s (%s, %s)\n"+
			"Gesamtpreis: CHF %d\n"+
			"Anzahlung: CHF %d\n"+
			"Referenz: %s\n",
		submission.ProjectName,
		submission.ServiceType,
		submission.ClientName,
		submission.ClientEmail,
		submission.ClientPhone,
		submission.TotalPrice,
		submission.DepositAmount,
		submission.ID.String(),
	)
}

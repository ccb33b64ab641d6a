package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/studytrail/internal/platform/brevo"
)

// ErrNoRecipient is returned when no recipient address is configured.
var ErrNoRecipient = errors.New("notify: no recipient configured")

// Config addresses outgoing mail.
type Config struct {
	Recipient     string
	RecipientName string
	AppURL        string
}

// Notifier renders progress emails and hands them to the mail client.
type Notifier struct {
	mailer    brevo.Client
	templates *Templates
	cfg       Config
	logger    *slog.Logger
}

// New creates a Notifier. The templates are parsed once here.
func New(mailer brevo.Client, cfg Config, logger *slog.Logger) (*Notifier, error) {
	if cfg.AppURL == "" {
		cfg.AppURL = "http://localhost:3000"
	}
	if cfg.RecipientName == "" {
		cfg.RecipientName = "FAANG Student"
	}
	if logger == nil {
		logger = slog.Default()
	}
	templates, err := NewTemplates(cfg.AppURL)
	if err != nil {
		return nil, err
	}
	return &Notifier{mailer: mailer, templates: templates, cfg: cfg, logger: logger}, nil
}

// LessonCompleted sends the completion email.
func (n *Notifier) LessonCompleted(ctx context.Context, lessonTitle string, streak int) error {
	email, err := n.templates.LessonCompleted(lessonTitle, streak)
	if err != nil {
		return err
	}
	return n.send(ctx, email)
}

// Achievement sends a milestone email.
func (n *Notifier) Achievement(ctx context.Context, title, message string) error {
	email, err := n.templates.Achievement(title, message)
	if err != nil {
		return err
	}
	return n.send(ctx, email)
}

// StreakReminder sends the streak-at-risk email.
func (n *Notifier) StreakReminder(ctx context.Context, streak int) error {
	email, err := n.templates.StreakReminder(streak, "")
	if err != nil {
		return err
	}
	return n.send(ctx, email)
}

// WeeklyProgress sends the weekly digest.
func (n *Notifier) WeeklyProgress(ctx context.Context, lessons int, hours float64, streak int) error {
	email, err := n.templates.WeeklyProgress(lessons, hours, streak)
	if err != nil {
		return err
	}
	return n.send(ctx, email)
}

func (n *Notifier) send(ctx context.Context, email Email) error {
	if n.cfg.Recipient == "" {
		return ErrNoRecipient
	}
	res, err := n.mailer.Send(ctx, brevo.SendEmailRequest{
		To:      []brevo.EmailAddress{{Email: n.cfg.Recipient, Name: n.cfg.RecipientName}},
		Subject: email.Subject,
		HTML:    email.HTML,
	})
	if err != nil {
		n.logger.Error("sending email", "subject", email.Subject, "error", err)
		return fmt.Errorf("sending %q: %w", email.Subject, err)
	}
	n.logger.Info("email sent", "subject", email.Subject, "message_id", res.MessageID)
	return nil
}

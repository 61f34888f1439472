package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"openears-backend/internal/models"
)

type EmailKind string

const (
	EmailWelcome      EmailKind = "welcome"
	EmailConfirmation EmailKind = "confirmation"
	EmailReminder     EmailKind = "reminder"
)

// Mailer simulates a transactional email provider. Send resolves after
// a fixed delay and broadcasts the rendered message to subscribers so
// the demo surface can show it; nothing is ever delivered.
type Mailer struct {
	clock Clock
	delay time.Duration
	log   *zap.Logger

	mu   sync.Mutex
	subs []chan models.Email
}

func NewMailer(clock Clock, delay time.Duration, log *zap.Logger) *Mailer {
	return &Mailer{clock: clock, delay: delay, log: log}
}

// Subscribe returns a channel receiving every sent email. Slow
// subscribers drop messages rather than block the sender.
func (m *Mailer) Subscribe() <-chan models.Email {
	ch := make(chan models.Email, 16)
	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()
	return ch
}

// Send renders the template for kind, waits out the simulated provider
// round-trip and broadcasts the result.
func (m *Mailer) Send(ctx context.Context, to string, kind EmailKind, details string) (models.Email, error) {
	username := to
	if i := strings.Index(to, "@"); i > 0 {
		username = to[:i]
	}
	subject, body := Template(kind, username)
	if details != "" {
		body += " \n\nDetails: " + details
	}

	m.clock.Sleep(m.delay)

	email := models.Email{
		To:      to,
		Subject: subject,
		Body:    body,
		SentAt:  m.clock.Now(),
	}

	m.mu.Lock()
	for _, ch := range m.subs {
		select {
		case ch <- email:
		default:
		}
	}
	m.mu.Unlock()

	m.log.Info("mock email sent",
		zap.String("to", to),
		zap.String("kind", string(kind)),
		zap.String("subject", subject))
	return email, nil
}

// Template returns the subject and body for a notification kind. An
// unrecognized kind falls back to a generic notice.
func Template(kind EmailKind, username string) (subject, body string) {
	switch kind {
	case EmailWelcome:
		return "Welcome to Our Ears Are Open",
			"Hi " + username + ", welcome to our warm community. We are here to listen. Your account has been created."
	case EmailConfirmation:
		return "Booking Confirmed",
			"Hi " + username + ", your 15-minute session has been booked. Payment received."
	case EmailReminder:
		return "Upcoming Conversation",
			"Hi " + username + ", your chat with a volunteer starts in 15 minutes."
	default:
		return "Notification", "You have a new notification."
	}
}

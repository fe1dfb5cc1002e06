package notify

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/pimpraxis/therapy-scheduler/internal/config"
)

// Booking carries everything an appointment notice needs.
type Booking struct {
	TherapyTitle string
	Date         string
	StartTime    string
	EndTime      string
}

type Recipient struct {
	Email string
	Name  string
}

// Mailer sends the workflow notices. All sends are best-effort; callers
// dispatch them through Async and never gate on the result.
type Mailer interface {
	BookingConfirmed(to Recipient, b Booking) error
	BookingCancelled(to Recipient, b Booking) error
	UserApproved(to Recipient, registrationLink string) error
}

// Async runs a notification off the request path. Failures are logged and
// never reach the primary operation's outcome.
func Async(what string, send func() error) {
	go func() {
		if err := send(); err != nil {
			log.Printf("notify: %s failed: %v", what, err)
		}
	}()
}

// ===============================
// SendGrid implementation
// ===============================

type SendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridMailer(cfg *config.Config) *SendGridMailer {
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(cfg.SendgridAPIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (m *SendGridMailer) send(to Recipient, subject, plain, html string) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	rcpt := mail.NewEmail(to.Name, to.Email)
	msg := mail.NewSingleEmail(from, subject, rcpt, plain, html)

	resp, err := m.client.Send(msg)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", to.Email, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func (m *SendGridMailer) BookingConfirmed(to Recipient, b Booking) error {
	subject := fmt.Sprintf("Your appointment for %s is confirmed", b.TherapyTitle)
	plain := fmt.Sprintf(
		"Hello %s,\n\nYour appointment has been confirmed.\n\n"+
			"Therapy: %s\nDate: %s\nTime: %s - %s\n\n"+
			"See you then.",
		to.Name, b.TherapyTitle, b.Date, b.StartTime, b.EndTime,
	)
	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your appointment has been confirmed.</p>"+
			"<p><b>%s</b><br>%s, %s &ndash; %s</p>",
		to.Name, b.TherapyTitle, b.Date, b.StartTime, b.EndTime,
	)
	return m.send(to, subject, plain, html)
}

func (m *SendGridMailer) BookingCancelled(to Recipient, b Booking) error {
	subject := fmt.Sprintf("Your appointment for %s was cancelled", b.TherapyTitle)
	plain := fmt.Sprintf(
		"Hello %s,\n\nYour appointment has been cancelled.\n\n"+
			"Therapy: %s\nDate: %s\nTime: %s - %s\n\n"+
			"Please get in touch to arrange a new one.",
		to.Name, b.TherapyTitle, b.Date, b.StartTime, b.EndTime,
	)
	html := fmt.Sprintf(
		"<p>Hello %s,</p><p>Your appointment has been cancelled.</p>"+
			"<p><b>%s</b><br>%s, %s &ndash; %s</p>",
		to.Name, b.TherapyTitle, b.Date, b.StartTime, b.EndTime,
	)
	return m.send(to, subject, plain, html)
}

func (m *SendGridMailer) UserApproved(to Recipient, registrationLink string) error {
	subject := "Your account has been approved"
	plain := fmt.Sprintf(
		"Hello %s,\n\nYour account has been approved. Complete your registration here:\n%s\n\n"+
			"The link expires in 24 hours.",
		to.Name, registrationLink,
	)
	html := fmt.Sprintf(
		"<h1>Hello %s</h1><p>Your account has been approved. Click to complete your registration:</p>"+
			`<a href="%s">Complete registration</a><p>This link expires in 24 hours.</p>`,
		to.Name, registrationLink,
	)
	return m.send(to, subject, plain, html)
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-mail/mail/v2"
	"github.com/google/uuid"
)

type Message struct {
	// ID becomes the local part of the Message-ID header when set.
	ID      string
	To      string
	Subject string
	Text    string
}

// NewMessageID returns a fresh id for Message.ID.
func NewMessageID() string {
	return uuid.NewString()
}

// Mailer sends plain text mail over SMTP.
type Mailer struct {
	dialer *mail.Dialer
	from   string
	domain string
}

func NewMailer(host string, port int, user, pass, fromName, fromEmail string) *Mailer {
	d := mail.NewDialer(host, port, user, pass)
	d.StartTLSPolicy = mail.OpportunisticStartTLS
	m := mail.NewMessage()
	domain := "localhost"
	if at := strings.LastIndexByte(fromEmail, '@'); at >= 0 && at < len(fromEmail)-1 {
		domain = fromEmail[at+1:]
	}
	return &Mailer{dialer: d, from: m.FormatAddress(fromEmail, fromName), domain: domain}
}

func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	em := mail.NewMessage()
	em.SetHeader("From", m.from)
	em.SetHeader("To", msg.To)
	em.SetHeader("Subject", msg.Subject)
	if msg.ID != "" {
		em.SetHeader("Message-ID", "<"+msg.ID+"@"+m.domain+">")
	}
	em.SetBody("text/plain", msg.Text)
	if err := m.dialer.DialAndSend(em); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"os"
)

// SMTPMailer delivers over plain SMTP. Local dev against Mailhog/Mailpit
// mostly; production traffic goes through SES.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPMailer() (*SMTPMailer, error) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil, errors.New("SMTP_HOST is not set")
	}
	from := os.Getenv("MAIL_FROM")
	if from == "" {
		return nil, errors.New("MAIL_FROM is not set")
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	var auth smtp.Auth
	if user := os.Getenv("SMTP_USERNAME"); user != "" {
		auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASSWORD"), host)
	}
	return &SMTPMailer{
		addr: host + ":" + port,
		auth: auth,
		from: from,
	}, nil
}

func (m *SMTPMailer) SendCheckInEmail(ctx context.Context, email CheckInEmail) error {
	subject, body, err := RenderCheckInEmail(email)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.from, email.CandidateEmail, subject, body)
	return smtp.SendMail(m.addr, m.auth, m.from, []string{email.CandidateEmail}, []byte(msg))
}

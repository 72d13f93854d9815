package application

import (
	"os"

	"gopkg.in/gomail.v2"
)

const (
	smtpServer     = "smtp.office365.com"
	smtpServerPort = 587
)

type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer reads credentials at construction time, after the .env
// file has been loaded.
type SMTPMailer struct {
	email    string
	password string
}

func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{
		email:    os.Getenv("SMTP_AUTH_MAIL"),
		password: os.Getenv("SMTP_AUTH_PASSWORD"),
	}
}

func (mailer *SMTPMailer) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", mailer.email)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text", body)

	client := gomail.NewDialer(smtpServer, smtpServerPort, mailer.email, mailer.password)
	return client.DialAndSend(m)
}

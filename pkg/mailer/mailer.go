package mailer

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends account mail over SMTP.
type Mailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewMailer(host string, port int, username, password, from, fromName string) *Mailer {
	return &Mailer{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     from,
		fromName: fromName,
	}
}

func (m *Mailer) Send(to, subject, body string) error {
	if to == "" {
		return errors.New("no recipient specified")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", fmt.Sprintf("%s <%s>", m.fromName, m.from))
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}

package mailer

import (
	"io"

	"gopkg.in/gomail.v2"
)

// Mailer sends outbound email, optionally with an in-memory attachment.
type Mailer interface {
	Send(to, subject, body string, attachment []byte, attachmentName string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) Mailer {
	return &smtpMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *smtpMailer) Send(to, subject, body string, attachment []byte, attachmentName string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if len(attachment) > 0 && attachmentName != "" {
		msg.Attach(attachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(attachment)
			return err
		}))
	}

	return m.dialer.DialAndSend(msg)
}

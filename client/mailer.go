package client

import (
	"context"
	"strings"

	"inc/config"

	"gopkg.in/gomail.v2"
)

type Mail struct {
	To      []string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, mail *Mail) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	bcc    []string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	bcc := make([]string, 0)
	for _, address := range strings.Split(cfg.MailBcc, ",") {
		if address = strings.TrimSpace(address); address != "" {
			bcc = append(bcc, address)
		}
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.MailFrom,
		bcc:    bcc,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, mail *Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", mail.To...)
	if len(m.bcc) > 0 {
		msg.SetHeader("Bcc", m.bcc...)
	}
	msg.SetHeader("Subject", mail.Subject)
	msg.SetBody("text/html", mail.HTML)
	return m.dialer.DialAndSend(msg)
}

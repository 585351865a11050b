package mailer

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer is the outbound mail surface the auth layer depends on.
type Mailer interface {
	SendPasswordReset(to, name, resetURL string) error
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

const resetMailTemplate = `Hi{{ if .Name }} {{ .Name | trim }}{{ end }},

To reset your password, click here: {{ .ResetURL }}

If you did not request a password reset you can ignore this mail.
`

// SMTPMailer sends mail through a plain SMTP transport.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	tmpl   *template.Template
	log    *zap.Logger
}

func NewSMTPMailer(cfg Config, log *zap.Logger) (*SMTPMailer, error) {
	tmpl, err := template.New("reset").Funcs(sprig.FuncMap()).Parse(resetMailTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse reset mail template: %w", err)
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	dialer.SSL = cfg.Port == 465

	return &SMTPMailer{
		dialer: dialer,
		from:   cfg.From,
		tmpl:   tmpl,
		log:    log,
	}, nil
}

func (m *SMTPMailer) SendPasswordReset(to, name, resetURL string) error {
	var body bytes.Buffer
	if err := m.tmpl.Execute(&body, map[string]string{"Name": name, "ResetURL": resetURL}); err != nil {
		return fmt.Errorf("failed to render reset mail: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Reset password")
	msg.SetBody("text/plain", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Error("Failed to send reset mail",
			zap.String("to", to),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send reset mail: %w", err)
	}

	m.log.Info("Reset mail sent",
		zap.String("to", to),
	)

	return nil
}

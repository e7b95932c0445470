package app

import (
	"strings"

	"github.com/charlesng35/stockpulse/pkg/mail"
)

// SMTPSettings converts EmailConfig to the mail package representation. The
// sender defaults to the SMTP username.
func (c EmailConfig) SMTPSettings() mail.SMTPSettings {
	from := strings.TrimSpace(c.SMTP.From)
	if from == "" {
		from = strings.TrimSpace(c.SMTP.Username)
	}

	return mail.SMTPSettings{
		Host:     strings.TrimSpace(c.SMTP.Host),
		Port:     c.SMTP.Port,
		Username: strings.TrimSpace(c.SMTP.Username),
		Password: c.SMTP.Password,
		From:     from,
		Timeout:  c.SMTP.Timeout,
	}
}

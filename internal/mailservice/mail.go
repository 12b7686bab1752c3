package mailservice

import (
	"time"

	"github.com/go-mail/mail/v2"
)

const dialTimeout = 5 * time.Second

func NewMailer(host string, port int, username, password, sender string, tp *Template) *Mail {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = dialTimeout

	return &Mail{
		dialer:   dialer,
		renderer: tp,
		sender:   sender,
	}
}

func (m *Mail) compose(recipient string, r *Rendered) *mail.Message {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", r.Subject)
	msg.SetBody("text/plain", r.Plain)
	msg.AddAlternative("text/html", r.HTML)
	return msg
}

// send renders templateFile with data and delivers it over one SMTP session.
// Sessions are serialised because the dialer is shared.
func (m *Mail) send(recipient string, data any, templateFile string) error {
	r, err := m.renderer.Render(templateFile, data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.dialer.DialAndSend(m.compose(recipient, r))
}

package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Sender interface {
	Send(to, subject, message string) error
}

type SMTPSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

func NewSMTPSender(host string, port int, username, password, from, fromName string) *SMTPSender {
	return &SMTPSender{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     from,
		fromName: fromName,
	}
}

func (s *SMTPSender) Send(to, subject, message string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", message)
	m.AddAlternative("text/html", fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 20px;">
<h2 style="color: #333;">%s</h2>
<p>%s</p>
<hr />
<p style="font-size: 12px; color: #666;">This is an automated message. Please do not reply to this email.</p>
</div>`, subject, message))
	return s.dialer.DialAndSend(m)
}

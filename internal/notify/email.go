package notify

import (
	"context"
	"fmt"
	"net/smtp"
)

// EmailNotifier канал доставки уведомлений по email через SMTP
type EmailNotifier struct {
	host     string
	port     int
	from     string
	username string
	password string
}

// NewEmailNotifier создает email-канал
func NewEmailNotifier(host string, port int, from, username, password string) *EmailNotifier {
	return &EmailNotifier{
		host:     host,
		port:     port,
		from:     from,
		username: username,
		password: password,
	}
}

// Send отправляет уведомление на email получателя
// Коды верификации по email не отправляются - это SMS-канал
func (n *EmailNotifier) Send(_ context.Context, rcpt Recipient, kind Kind, payload Payload) error {
	if rcpt.Email == "" || kind == KindVerificationCode {
		return nil
	}

	subject := formatSubject(kind, payload)
	body := formatText(kind, payload)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		n.from, rcpt.Email, subject, body)

	addr := fmt.Sprintf("%s:%d", n.host, n.port)

	var auth smtp.Auth
	if n.username != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}

	if err := smtp.SendMail(addr, auth, n.from, []string{rcpt.Email}, []byte(msg)); err != nil {
		return fmt.Errorf("notify: send email: %w", err)
	}
	return nil
}

func formatSubject(kind Kind, payload Payload) string {
	switch kind {
	case KindBookingReceived:
		return fmt.Sprintf("Заявка %s принята", payload["confirmationCode"])
	case KindBookingConfirmed:
		return fmt.Sprintf("Бронирование %s подтверждено", payload["confirmationCode"])
	case KindStatusUpdate:
		return fmt.Sprintf("Бронирование %s: обновление статуса", payload["confirmationCode"])
	case KindBookingCanceled:
		return fmt.Sprintf("Бронирование %s отменено", payload["confirmationCode"])
	default:
		return "Обновление по бронированию"
	}
}

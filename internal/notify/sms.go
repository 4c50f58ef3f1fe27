package notify

import (
	"context"
	"fmt"
)

// SMSClient контракт клиента SMS-шлюза
type SMSClient interface {
	SendSMS(ctx context.Context, phone, text string) error
}

// SMSNotifier канал доставки уведомлений по SMS
type SMSNotifier struct {
	client SMSClient
}

// NewSMSNotifier создает SMS-канал поверх клиента шлюза
func NewSMSNotifier(client SMSClient) *SMSNotifier {
	return &SMSNotifier{client: client}
}

// Send форматирует сообщение по типу уведомления и отправляет его на телефон получателя
func (n *SMSNotifier) Send(ctx context.Context, rcpt Recipient, kind Kind, payload Payload) error {
	if rcpt.Phone == "" {
		return nil
	}
	return n.client.SendSMS(ctx, rcpt.Phone, formatText(kind, payload))
}

// formatText строит текст сообщения по типу уведомления
func formatText(kind Kind, payload Payload) string {
	switch kind {
	case KindVerificationCode:
		return fmt.Sprintf("Код подтверждения бронирования: %s. Действителен 10 минут.", payload["code"])
	case KindBookingReceived:
		return fmt.Sprintf("Заявка %s принята: %s, %s. Мы свяжемся с вами для подтверждения.",
			payload["confirmationCode"], payload["date"], payload["slot"])
	case KindBookingConfirmed:
		return fmt.Sprintf("Бронирование %s подтверждено: %s, %s.",
			payload["confirmationCode"], payload["date"], payload["slot"])
	case KindStatusUpdate:
		return fmt.Sprintf("Бронирование %s: новый статус %s.",
			payload["confirmationCode"], payload["status"])
	case KindBookingCanceled:
		return fmt.Sprintf("Бронирование %s отменено.", payload["confirmationCode"])
	default:
		return fmt.Sprintf("Обновление по бронированию %s.", payload["confirmationCode"])
	}
}

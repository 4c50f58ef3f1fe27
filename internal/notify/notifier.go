package notify

import (
	"context"
	"time"
)

// Kind тип уведомления, определяет шаблон сообщения
type Kind string

const (
	KindVerificationCode Kind = "verification_code"
	KindBookingReceived  Kind = "booking_received"
	KindBookingConfirmed Kind = "booking_confirmed"
	KindStatusUpdate     Kind = "status_update"
	KindBookingCanceled  Kind = "booking_canceled"
)

// Recipient получатель уведомления. Канал сам решает, какой адрес использовать
type Recipient struct {
	Name  string
	Phone string
	Email string
}

// Payload данные для подстановки в шаблон сообщения
type Payload map[string]string

// Notifier канал доставки уведомлений (SMS, email)
// Контракт best-effort: ошибка отправки логируется и никогда
// не влияет на бизнес-операцию, породившую уведомление
type Notifier interface {
	Send(ctx context.Context, rcpt Recipient, kind Kind, payload Payload) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

const dispatchTimeout = 15 * time.Second

// Dispatcher веер уведомлений по всем каналам, fire-and-forget
// Вызывающий код не ждет результата: доставка уходит в отдельную горутину
// с собственным контекстом, паники и ошибки каналов гасятся и логируются
type Dispatcher struct {
	channels []Notifier
	logger   Logger
}

// NewDispatcher создает диспетчер уведомлений поверх списка каналов
func NewDispatcher(logger Logger, channels ...Notifier) *Dispatcher {
	return &Dispatcher{
		channels: channels,
		logger:   logger,
	}
}

// Dispatch асинхронно отправляет уведомление по всем каналам
func (d *Dispatcher) Dispatch(rcpt Recipient, kind Kind, payload Payload) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.logger.Error("notify: panic during dispatch of %s: %v", kind, r)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		for _, ch := range d.channels {
			if err := ch.Send(ctx, rcpt, kind, payload); err != nil {
				d.logger.Warn("notify: failed to send %s: %v", kind, err)
			}
		}
	}()
}

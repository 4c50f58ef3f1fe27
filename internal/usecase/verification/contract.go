package verification

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/internal/infra/sessionstore"
	"github.com/m04kA/SMC-DetailingService/internal/notify"
	"github.com/m04kA/SMC-DetailingService/internal/usecase/create_booking"
)

// SessionStore интерфейс хранилища верификационных сессий
type SessionStore interface {
	Put(ctx context.Context, session *sessionstore.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*sessionstore.Session, error)
	IncrementAttempts(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}

// BookingCreator интерфейс создания бронирования из подтвержденного черновика
type BookingCreator interface {
	Execute(ctx context.Context, req *create_booking.Request) (*domain.Booking, error)
}

// NotifyDispatcher интерфейс асинхронной отправки уведомлений
type NotifyDispatcher interface {
	Dispatch(rcpt notify.Recipient, kind notify.Kind, payload notify.Payload)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

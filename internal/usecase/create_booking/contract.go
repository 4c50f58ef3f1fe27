package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/internal/notify"
	"github.com/m04kA/SMC-DetailingService/internal/service/availability"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	ExistsByConfirmationCode(ctx context.Context, code string) (bool, error)
}

// CatalogRepository интерфейс репозитория каталога услуг
type CatalogRepository interface {
	GetServicesByIDs(ctx context.Context, ids []int64) ([]*domain.CatalogService, error)
	GetAddOnsByIDs(ctx context.Context, ids []int64) ([]*domain.AddOn, error)
}

// AvailabilityEvaluator интерфейс проверки доступности слота
// Внутри транзакции проверка авторитетна: подсчёт занятости блокирует строки дня
type AvailabilityEvaluator interface {
	Evaluate(ctx context.Context, date time.Time, slotID string) (*availability.Result, error)
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// NotifyDispatcher интерфейс асинхронной отправки уведомлений
type NotifyDispatcher interface {
	Dispatch(rcpt notify.Recipient, kind notify.Kind, payload notify.Payload)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package assignment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	AssignDetailer(ctx context.Context, bookingID, detailerID int64) error
	CountActiveByDetailerOnDate(ctx context.Context, detailerID int64, date time.Time) (int, error)
}

// DetailerRepository интерфейс репозитория детейлеров
type DetailerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Detailer, error)
	// ListActive возвращает активных детейлеров, отсортированных по ID по возрастанию
	ListActive(ctx context.Context) ([]*domain.Detailer, error)
}

// TxManager интерфейс менеджера транзакций
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

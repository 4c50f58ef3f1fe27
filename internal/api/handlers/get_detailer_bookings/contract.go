package get_detailer_bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

type BookingService interface {
	DaySheet(ctx context.Context, detailerID int64, date time.Time) ([]*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

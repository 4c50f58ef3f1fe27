package update_status

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	bookingsService "github.com/m04kA/SMC-DetailingService/internal/service/bookings"
)

type BookingService interface {
	ApplyTransition(ctx context.Context, req bookingsService.TransitionRequest) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package assign_booking

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

type AssignmentService interface {
	AssignManually(ctx context.Context, bookingID, detailerID int64) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

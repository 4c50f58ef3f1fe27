package list_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/service/availability"
)

type AvailabilityService interface {
	EvaluateRange(ctx context.Context, from time.Time, days int) ([]availability.DayAvailability, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

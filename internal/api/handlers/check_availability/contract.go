package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/service/availability"
)

type AvailabilityService interface {
	Evaluate(ctx context.Context, date time.Time, slotID string) (*availability.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

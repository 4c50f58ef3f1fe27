package confirm_verification

import (
	"context"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

type VerificationUseCase interface {
	Confirm(ctx context.Context, sessionID, code string) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

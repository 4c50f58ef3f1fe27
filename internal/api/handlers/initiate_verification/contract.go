package initiate_verification

import (
	"context"

	createBooking "github.com/m04kA/SMC-DetailingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-DetailingService/internal/usecase/verification"
)

type VerificationUseCase interface {
	Initiate(ctx context.Context, draft *createBooking.Request) (*verification.InitiateResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package login

import (
	"context"

	authService "github.com/m04kA/SMC-DetailingService/internal/service/auth"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*authService.LoginResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

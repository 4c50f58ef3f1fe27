package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

const msgUnauthorized = "требуется аутентификация"

// Authenticator интерфейс проверки токена и загрузки детейлера
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Detailer, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type contextKey int

const detailerKey contextKey = iota

// Auth middleware аутентификации детейлера по Bearer-токену
// Аутентифицированный детейлер кладется в контекст запроса
func Auth(authenticator Authenticator, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			detailer, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				logger.Warn("%s %s - authentication failed: %v", r.Method, r.URL.Path, err)
				handlers.RespondUnauthorized(w, msgUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), detailerKey, detailer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DetailerFromContext возвращает аутентифицированного детейлера из контекста
func DetailerFromContext(ctx context.Context) (*domain.Detailer, bool) {
	d, ok := ctx.Value(detailerKey).(*domain.Detailer)
	return d, ok
}

// DetailerID возвращает ID аутентифицированного детейлера из контекста
func DetailerID(ctx context.Context) (int64, bool) {
	d, ok := DetailerFromContext(ctx)
	if !ok {
		return 0, false
	}
	return d.ID, true
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

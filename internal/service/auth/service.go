package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// Service аутентификация детейлеров: вход по email/паролю и выдача JWT
type Service struct {
	detailers    DetailerRepository
	jwtSecret    []byte
	tokenTTL     time.Duration
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса аутентификации
func NewService(detailers DetailerRepository, jwtSecret string, tokenTTL time.Duration, logger Logger) *Service {
	return &Service{
		detailers:    detailers,
		jwtSecret:    []byte(jwtSecret),
		tokenTTL:     tokenTTL,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// NewServiceWithTimeProvider создает сервис с инжектированными часами (для тестов)
func NewServiceWithTimeProvider(detailers DetailerRepository, jwtSecret string, tokenTTL time.Duration, tp TimeProvider, logger Logger) *Service {
	s := NewService(detailers, jwtSecret, tokenTTL, logger)
	s.timeProvider = tp
	return s
}

// LoginResult результат успешного входа
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Detailer  *domain.Detailer
}

// Login проверяет пару email/пароль и выдает подписанный JWT
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	detailer, err := s.detailers.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Не раскрываем наличие учетной записи
		return nil, ErrInvalidCredentials
	}

	if !detailer.IsActive {
		return nil, ErrDetailerInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(detailer.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.timeProvider.Now()
	expiresAt := now.Add(s.tokenTTL)

	claims := jwt.MapClaims{
		"sub": fmt.Sprintf("%d", detailer.ID),
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to sign token: %v", ErrInternal, err)
	}

	s.logger.Info("auth: detailer %d logged in", detailer.ID)

	return &LoginResult{
		Token:     signed,
		ExpiresAt: expiresAt,
		Detailer:  detailer,
	}, nil
}

// VerifyToken проверяет подпись и срок действия токена, возвращает ID детейлера
func (s *Service) VerifyToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.timeProvider.Now))
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, ErrInvalidToken
	}

	var detailerID int64
	if _, err := fmt.Sscanf(sub, "%d", &detailerID); err != nil || detailerID <= 0 {
		return 0, ErrInvalidToken
	}

	return detailerID, nil
}

// Authenticate проверяет токен и подтверждает, что детейлер существует и активен
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*domain.Detailer, error) {
	detailerID, err := s.VerifyToken(tokenString)
	if err != nil {
		return nil, err
	}

	detailer, err := s.detailers.GetByID(ctx, detailerID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !detailer.IsActive {
		return nil, ErrDetailerInactive
	}

	return detailer, nil
}

// IsAuthError сообщает, относится ли ошибка к отказу в аутентификации
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrDetailerInactive)
}

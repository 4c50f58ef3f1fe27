package verification

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound возвращается при неизвестной или истёкшей сессии
	// Намеренно не различает "не было" и "истекла по TTL"
	ErrSessionNotFound = errors.New("verification: invalid or expired session")

	// ErrSessionExpired возвращается, когда сессия пережила TTL хранилища,
	// но её срок по ExpiresAt уже вышел
	ErrSessionExpired = errors.New("verification: session expired")

	// ErrInvalidCode возвращается при неверном коде подтверждения
	// Число оставшихся попыток несёт InvalidCodeError
	ErrInvalidCode = errors.New("verification: invalid code")

	// ErrTooManyAttempts возвращается после исчерпания попыток ввода кода
	ErrTooManyAttempts = errors.New("verification: too many attempts")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("verification: internal error")
)

// InvalidCodeError неверный код с числом оставшихся попыток
type InvalidCodeError struct {
	Remaining int
}

// Error возвращает текстовое описание ошибки
func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("verification: invalid code, %d attempts remaining", e.Remaining)
}

// Is поддерживает сопоставление с ErrInvalidCode через errors.Is
func (e *InvalidCodeError) Is(target error) bool {
	return target == ErrInvalidCode
}

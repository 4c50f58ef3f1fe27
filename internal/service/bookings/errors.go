package bookings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookings: booking not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings: invalid input data")

	// ErrUnknownStatus возвращается при неизвестном целевом статусе
	ErrUnknownStatus = errors.New("bookings: unknown booking status")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	// Конкретный переход и список допустимых несёт InvalidTransitionError
	ErrInvalidTransition = errors.New("bookings: invalid status transition")

	// ErrNotYourBooking возвращается, когда детейлер пытается изменить
	// бронирование, назначенное на другого детейлера
	ErrNotYourBooking = errors.New("bookings: booking is assigned to another detailer")

	// ErrAlreadyAssigned возвращается, когда самоназначение не прошло:
	// бронирование успел занять другой детейлер
	ErrAlreadyAssigned = errors.New("bookings: booking already assigned")

	// ErrCancelNotAllowed возвращается при попытке клиентской отмены
	// бронирования, по которому работы уже начались или завершены
	ErrCancelNotAllowed = errors.New("bookings: booking can no longer be canceled")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)

// InvalidTransitionError ошибка недопустимого перехода статуса
// Несёт список допустимых следующих статусов для ответа клиенту
type InvalidTransitionError struct {
	From    domain.BookingStatus
	To      domain.BookingStatus
	Allowed []domain.BookingStatus
}

// Error возвращает текстовое описание ошибки
func (e *InvalidTransitionError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("bookings: invalid status transition %s -> %s, allowed: [%s]",
		e.From, e.To, strings.Join(allowed, ", "))
}

// Is поддерживает сопоставление с ErrInvalidTransition через errors.Is
func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

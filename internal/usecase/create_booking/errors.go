package create_booking

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrSlotUnavailable возвращается, когда выбранный слот недоступен
	// Причину и число конфликтов несёт UnavailableError
	ErrSlotUnavailable = errors.New("create_booking: time slot unavailable")

	// ErrServiceNotFound возвращается, когда услуга каталога не найдена или неактивна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrAddOnNotFound возвращается, когда дополнение каталога не найдено или неактивно
	ErrAddOnNotFound = errors.New("create_booking: add-on not found")

	// ErrCodeGeneration возвращается, когда не удалось выделить уникальный
	// код подтверждения за отведённое число попыток
	ErrCodeGeneration = errors.New("create_booking: failed to allocate confirmation code")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("create_booking: internal error")
)

// UnavailableError отказ в бронировании слота с причиной для клиента
type UnavailableError struct {
	Reason        string
	ConflictCount int
}

// Error возвращает текстовое описание ошибки
func (e *UnavailableError) Error() string {
	return fmt.Sprintf("create_booking: time slot unavailable: %s", e.Reason)
}

// Is поддерживает сопоставление с ErrSlotUnavailable через errors.Is
func (e *UnavailableError) Is(target error) bool {
	return target == ErrSlotUnavailable
}

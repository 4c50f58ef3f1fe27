package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// ValidateRequest проверяет входные данные создания бронирования
// Календарные правила (запас 24 часа, горизонт 60 дней, занятость дня)
// проверяет сервис доступности, здесь - только форма данных.
// Экспортируется для переиспользования потоком SMS-верификации,
// который валидирует черновик до отправки кода
func ValidateRequest(req *Request) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if err := validateEmail(req.CustomerEmail); err != nil {
		return err
	}
	if err := validatePhone(req.CustomerPhone); err != nil {
		return err
	}
	if strings.TrimSpace(req.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.City) == "" {
		return fmt.Errorf("%w: city is required", ErrInvalidInput)
	}

	if _, ok := domain.ParseVehicleType(req.VehicleType); !ok {
		return fmt.Errorf("%w: unknown vehicle type %q", ErrInvalidInput, req.VehicleType)
	}
	if strings.TrimSpace(req.VehicleMake) == "" {
		return fmt.Errorf("%w: vehicle make is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.VehicleModel) == "" {
		return fmt.Errorf("%w: vehicle model is required", ErrInvalidInput)
	}
	if req.VehicleYear < domain.MinVehicleYear || req.VehicleYear > time.Now().Year()+1 {
		return fmt.Errorf("%w: vehicle year %d is out of range", ErrInvalidInput, req.VehicleYear)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: invalid service id %d", ErrInvalidInput, id)
		}
	}
	for _, id := range req.AddOnIDs {
		if id <= 0 {
			return fmt.Errorf("%w: invalid add-on id %d", ErrInvalidInput, id)
		}
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: booking date is required", ErrInvalidInput)
	}
	if _, ok := domain.SlotByID(req.TimeSlot); !ok {
		return fmt.Errorf("%w: unknown time slot %q", ErrInvalidInput, req.TimeSlot)
	}

	if req.SpecialInstructions != nil && len(*req.SpecialInstructions) > domain.MaxSpecialInstructionsLength {
		return fmt.Errorf("%w: special instructions exceed %d characters",
			ErrInvalidInput, domain.MaxSpecialInstructionsLength)
	}

	switch req.InitialStatus {
	case "", domain.StatusPending, domain.StatusConfirmed:
	default:
		return fmt.Errorf("%w: initial status %q is not allowed", ErrInvalidInput, req.InitialStatus)
	}

	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	return nil
}

func validatePhone(phone string) error {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 10 {
		return fmt.Errorf("%w: invalid phone number", ErrInvalidInput)
	}
	return nil
}

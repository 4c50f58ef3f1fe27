package create_booking

import (
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// Request входные данные создания бронирования
type Request struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Address       string
	City          string
	PostalCode    string

	VehicleType  string
	VehicleMake  string
	VehicleModel string
	VehicleYear  int

	ServiceIDs []int64
	AddOnIDs   []int64

	Date     time.Time
	TimeSlot string

	SpecialInstructions *string

	// InitialStatus статус создаваемого бронирования.
	// Пустое значение - PENDING. Поток SMS-верификации создает сразу CONFIRMED
	InitialStatus domain.BookingStatus
}

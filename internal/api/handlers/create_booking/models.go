package create_booking

import (
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	createBooking "github.com/m04kA/SMC-DetailingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode"`

	VehicleType  string `json:"vehicleType"`
	VehicleMake  string `json:"vehicleMake"`
	VehicleModel string `json:"vehicleModel"`
	VehicleYear  int    `json:"vehicleYear"`

	ServiceIDs []int64 `json:"serviceIds"`
	AddOnIDs   []int64 `json:"addOnIds,omitempty"`

	Date     string `json:"date"`     // "2026-09-15"
	TimeSlot string `json:"timeSlot"` // "morning" | "afternoon"

	SpecialInstructions *string `json:"specialInstructions,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом даты)
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		CustomerName:        r.CustomerName,
		CustomerEmail:       r.CustomerEmail,
		CustomerPhone:       r.CustomerPhone,
		Address:             r.Address,
		City:                r.City,
		PostalCode:          r.PostalCode,
		VehicleType:         r.VehicleType,
		VehicleMake:         r.VehicleMake,
		VehicleModel:        r.VehicleModel,
		VehicleYear:         r.VehicleYear,
		ServiceIDs:          r.ServiceIDs,
		AddOnIDs:            r.AddOnIDs,
		Date:                date,
		TimeSlot:            r.TimeSlot,
		SpecialInstructions: r.SpecialInstructions,
	}, nil
}

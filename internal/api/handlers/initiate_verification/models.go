package initiate_verification

import (
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	createBooking "github.com/m04kA/SMC-DetailingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-DetailingService/internal/usecase/verification"
)

// InitiateVerificationRequest HTTP request model: черновик бронирования,
// который будет создан после подтверждения кода
type InitiateVerificationRequest struct {
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

	Date     string `json:"date"`
	TimeSlot string `json:"timeSlot"`

	SpecialInstructions *string `json:"specialInstructions,omitempty"`
}

// InitiateVerificationResponse HTTP response model
type InitiateVerificationResponse struct {
	SessionID string `json:"sessionId"`
	ExpiresAt string `json:"expiresAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в черновик use case
func (r *InitiateVerificationRequest) ToUseCaseRequest() (*createBooking.Request, error) {
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

// FromResult конвертирует результат use case в HTTP response
func FromResult(result *verification.InitiateResult) *InitiateVerificationResponse {
	return &InitiateVerificationResponse{
		SessionID: result.SessionID,
		ExpiresAt: result.ExpiresAt.Format(time.RFC3339),
	}
}

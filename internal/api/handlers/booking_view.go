package handlers

import (
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// BookingView HTTP-представление бронирования, общее для всех обработчиков
type BookingView struct {
	ID               int64  `json:"id"`
	ConfirmationCode string `json:"confirmationCode"`

	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	PostalCode    string `json:"postalCode,omitempty"`

	VehicleType  string `json:"vehicleType"`
	VehicleMake  string `json:"vehicleMake"`
	VehicleModel string `json:"vehicleModel"`
	VehicleYear  int    `json:"vehicleYear"`

	ServiceIDs []int64 `json:"serviceIds"`
	AddOnIDs   []int64 `json:"addOnIds,omitempty"`

	Date     string `json:"date"`
	TimeSlot string `json:"timeSlot"`

	Status     string `json:"status"`
	DetailerID *int64 `json:"detailerId,omitempty"`

	TotalPrice             float64 `json:"totalPrice"`
	EstimatedDurationHours float64 `json:"estimatedDurationHours"`

	SpecialInstructions *string `json:"specialInstructions,omitempty"`
	Notes               *string `json:"notes,omitempty"`

	EnRouteAt   *string `json:"enRouteAt,omitempty"`
	StartedAt   *string `json:"startedAt,omitempty"`
	CompletedAt *string `json:"completedAt,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// NewBookingView строит HTTP-представление из доменной модели
func NewBookingView(b *domain.Booking) *BookingView {
	return &BookingView{
		ID:                     b.ID,
		ConfirmationCode:       b.ConfirmationCode,
		CustomerName:           b.CustomerName,
		CustomerEmail:          b.CustomerEmail,
		CustomerPhone:          b.CustomerPhone,
		Address:                b.Address,
		City:                   b.City,
		PostalCode:             b.PostalCode,
		VehicleType:            string(b.VehicleType),
		VehicleMake:            b.VehicleMake,
		VehicleModel:           b.VehicleModel,
		VehicleYear:            b.VehicleYear,
		ServiceIDs:             b.ServiceIDs,
		AddOnIDs:               b.AddOnIDs,
		Date:                   b.Date.Format(domain.DateFormat),
		TimeSlot:               b.TimeSlot,
		Status:                 string(b.Status),
		DetailerID:             b.DetailerID,
		TotalPrice:             b.TotalPrice,
		EstimatedDurationHours: b.EstimatedDurationHours,
		SpecialInstructions:    b.SpecialInstructions,
		Notes:                  b.Notes,
		EnRouteAt:              formatTimePtr(b.EnRouteAt),
		StartedAt:              formatTimePtr(b.StartedAt),
		CompletedAt:            formatTimePtr(b.CompletedAt),
		CreatedAt:              b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:              b.UpdatedAt.Format(time.RFC3339),
	}
}

// NewBookingViews строит представления для списка бронирований
func NewBookingViews(list []*domain.Booking) []*BookingView {
	views := make([]*BookingView, 0, len(list))
	for _, b := range list {
		views = append(views, NewBookingView(b))
	}
	return views
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

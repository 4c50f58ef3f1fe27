package check_availability

import (
	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/internal/service/availability"
)

// SlotView HTTP-представление временного слота
type SlotView struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// CheckAvailabilityResponse HTTP response model
type CheckAvailabilityResponse struct {
	Date                   string    `json:"date"`
	TimeSlot               string    `json:"timeSlot"`
	Available              bool      `json:"available"`
	Reason                 string    `json:"reason,omitempty"`
	ConflictCount          int       `json:"conflictCount,omitempty"`
	Slot                   *SlotView `json:"slot,omitempty"`
	EstimatedDurationHours float64   `json:"estimatedDurationHours,omitempty"`
}

// FromResult конвертирует результат сервиса в HTTP response
func FromResult(date, slotID string, result *availability.Result) *CheckAvailabilityResponse {
	resp := &CheckAvailabilityResponse{
		Date:                   date,
		TimeSlot:               slotID,
		Available:              result.Available,
		Reason:                 result.Reason,
		ConflictCount:          result.ConflictCount,
		EstimatedDurationHours: result.EstimatedDurationHours,
	}
	if result.Slot != nil {
		resp.Slot = NewSlotView(*result.Slot)
	}
	return resp
}

// NewSlotView строит представление слота из доменной модели
func NewSlotView(slot domain.TimeSlot) *SlotView {
	return &SlotView{
		ID:        slot.ID,
		Label:     slot.Label,
		StartTime: slot.StartTime.String(),
		EndTime:   slot.EndTime.String(),
	}
}

package list_availability

import (
	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/internal/service/availability"
)

// SlotAvailabilityView HTTP-представление доступности слота
type SlotAvailabilityView struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// DayAvailabilityView HTTP-представление доступности дня
type DayAvailabilityView struct {
	Date  string                 `json:"date"`
	Slots []SlotAvailabilityView `json:"slots"`
}

// ListAvailabilityResponse HTTP response model
type ListAvailabilityResponse struct {
	Days []DayAvailabilityView `json:"days"`
}

// FromDays конвертирует результат сервиса в HTTP response
func FromDays(days []availability.DayAvailability) *ListAvailabilityResponse {
	out := make([]DayAvailabilityView, 0, len(days))
	for _, day := range days {
		slots := make([]SlotAvailabilityView, 0, len(day.Slots))
		for _, s := range day.Slots {
			slots = append(slots, SlotAvailabilityView{
				ID:        s.Slot.ID,
				Label:     s.Slot.Label,
				StartTime: s.Slot.StartTime.String(),
				EndTime:   s.Slot.EndTime.String(),
				Available: s.Available,
				Reason:    s.Reason,
			})
		}
		out = append(out, DayAvailabilityView{
			Date:  day.Date.Format(domain.DateFormat),
			Slots: slots,
		})
	}
	return &ListAvailabilityResponse{Days: out}
}

package availability

import (
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// Причины недоступности слота. Отдаются клиенту как есть
const (
	ReasonPastDate    = "cannot book a date in the past"
	ReasonInvalidSlot = "invalid time slot"
	ReasonClosedDay   = "business is closed on this day"
	ReasonDayTaken    = "time slot unavailable - another appointment is scheduled on this date"
)

// Result результат проверки доступности слота
// При Available = false заполнен Reason, при конфликте - ConflictCount
type Result struct {
	Available     bool
	Reason        string
	Slot          *domain.TimeSlot
	ConflictCount int

	// Оценка длительности работ для принятого слота
	EstimatedDurationHours float64
}

// SlotAvailability доступность одного слота в выдаче за период
type SlotAvailability struct {
	Slot          domain.TimeSlot
	Available     bool
	Reason        string
	ConflictCount int
}

// DayAvailability доступность всех слотов одного календарного дня
type DayAvailability struct {
	Date  time.Time
	Slots []SlotAvailability
}

package domain

import (
	"time"

	"github.com/m04kA/SMC-DetailingService/pkg/types"
)

// TimeSlot is one of the two named daily windows offered to customers.
// Slot labels are display metadata: capacity is per day, not per slot
// (the business runs a single mobile crew), so a morning booking blocks
// the afternoon of the same day as well.
type TimeSlot struct {
	ID        string
	Label     string
	StartTime types.TimeString
	EndTime   types.TimeString
}

const (
	SlotMorning   = "morning"
	SlotAfternoon = "afternoon"
)

// TimeSlots is the fixed slot catalog
var TimeSlots = []TimeSlot{
	{
		ID:        SlotMorning,
		Label:     "Morning (8:00 - 14:00)",
		StartTime: "08:00",
		EndTime:   "14:00",
	},
	{
		ID:        SlotAfternoon,
		Label:     "Afternoon (12:00 - 18:00)",
		StartTime: "12:00",
		EndTime:   "18:00",
	},
}

// SlotByID returns the slot definition for a slot id
func SlotByID(id string) (TimeSlot, bool) {
	for _, slot := range TimeSlots {
		if slot.ID == id {
			return slot, true
		}
	}
	return TimeSlot{}, false
}

// Business calendar policy, static and not editable at runtime
const (
	OpeningTime types.TimeString = "08:00"
	ClosingTime types.TimeString = "18:00"

	ServiceDurationHours = 4.0
	BufferHours          = 2.0 // informational, does not subdivide the day

	AddOnDurationHours = 0.5 // added to the estimate per selected add-on

	MinAdvanceNoticeHours = 24
	MaxAdvanceDays        = 60

	// Query conveniences for the public availability listing, distinct
	// from the 24h/60-day booking-eligibility rules above
	DefaultQueryRangeDays = 30
	MaxQueryRangeDays     = 90

	DailyCapacity = 1 // one mobile crew, one job per calendar day
)

// workingDays marks which weekdays are bookable. Current policy: all seven.
var workingDays = map[time.Weekday]bool{
	time.Monday:    true,
	time.Tuesday:   true,
	time.Wednesday: true,
	time.Thursday:  true,
	time.Friday:    true,
	time.Saturday:  true,
	time.Sunday:    true,
}

// IsWorkingDay reports whether the business operates on the given date's weekday
func IsWorkingDay(date time.Time) bool {
	return workingDays[date.Weekday()]
}

// NormalizeDate strips the time-of-day component, keeping the calendar day
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsSameDay reports whether two timestamps fall on the same calendar day
func IsSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

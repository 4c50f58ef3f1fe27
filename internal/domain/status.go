package domain

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending    BookingStatus = "PENDING"
	StatusConfirmed  BookingStatus = "CONFIRMED"
	StatusEnRoute    BookingStatus = "EN_ROUTE"
	StatusStarted    BookingStatus = "STARTED"
	StatusInProgress BookingStatus = "IN_PROGRESS"
	StatusCompleted  BookingStatus = "COMPLETED"
	StatusCanceled   BookingStatus = "CANCELED"
)

// AllStatuses lists every valid booking status
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusEnRoute,
	StatusStarted,
	StatusInProgress,
	StatusCompleted,
	StatusCanceled,
}

// statusTransitions is the single authoritative transition table.
// Transitions are monotonic: no skipping states, no moving backward.
var statusTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusCanceled},
	StatusConfirmed:  {StatusEnRoute, StatusCanceled},
	StatusEnRoute:    {StatusStarted, StatusCanceled},
	StatusStarted:    {StatusInProgress, StatusCanceled},
	StatusInProgress: {StatusCompleted, StatusCanceled},
	StatusCompleted:  {},
	StatusCanceled:   {},
}

// AllowedNextStatuses returns the set of statuses reachable from the given status
func AllowedNextStatuses(status BookingStatus) []BookingStatus {
	next, ok := statusTransitions[status]
	if !ok {
		return []BookingStatus{}
	}
	out := make([]BookingStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether a direct transition from one status to another is allowed
func CanTransition(from, to BookingStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions
func (s BookingStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// IsValid reports whether the status is a known booking status
func (s BookingStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// RequiresFieldActor reports whether reaching the status implies a detailer performing
// the job on site. Transitioning an unassigned booking to such a status claims it.
func (s BookingStatus) RequiresFieldActor() bool {
	switch s {
	case StatusEnRoute, StatusStarted, StatusInProgress, StatusCompleted:
		return true
	default:
		return false
	}
}

// ParseBookingStatus validates and converts a raw string into a BookingStatus
func ParseBookingStatus(raw string) (BookingStatus, bool) {
	s := BookingStatus(raw)
	if !s.IsValid() {
		return "", false
	}
	return s, true
}

// AssignmentLoadStatuses are the statuses counted as a detailer's active same-day load
// when auto-assignment picks the least busy detailer
var AssignmentLoadStatuses = []BookingStatus{
	StatusConfirmed,
	StatusInProgress,
}

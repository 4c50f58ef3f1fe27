package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to canceled", StatusPending, StatusCanceled, true},
		{"confirmed to en route", StatusConfirmed, StatusEnRoute, true},
		{"en route to started", StatusEnRoute, StatusStarted, true},
		{"started to in progress", StatusStarted, StatusInProgress, true},
		{"in progress to completed", StatusInProgress, StatusCompleted, true},

		// Пропуск шагов запрещён
		{"pending to en route", StatusPending, StatusEnRoute, false},
		{"confirmed to started", StatusConfirmed, StatusStarted, false},
		{"confirmed to completed", StatusConfirmed, StatusCompleted, false},

		// Движение назад запрещено
		{"started to en route", StatusStarted, StatusEnRoute, false},
		{"confirmed to pending", StatusConfirmed, StatusPending, false},

		// Терминальные статусы
		{"completed to anything", StatusCompleted, StatusCanceled, false},
		{"canceled to confirmed", StatusCanceled, StatusConfirmed, false},
		{"canceled to pending", StatusCanceled, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCancelReachableFromEveryNonTerminalStatus(t *testing.T) {
	for _, status := range AllStatuses {
		if status.IsTerminal() {
			continue
		}
		assert.True(t, CanTransition(status, StatusCanceled), "CANCELED must be reachable from %s", status)
	}
}

func TestAllowedNextStatuses(t *testing.T) {
	assert.ElementsMatch(t,
		[]BookingStatus{StatusConfirmed, StatusCanceled},
		AllowedNextStatuses(StatusPending),
	)
	assert.Empty(t, AllowedNextStatuses(StatusCompleted))
	assert.Empty(t, AllowedNextStatuses(StatusCanceled))
	assert.Empty(t, AllowedNextStatuses(BookingStatus("UNKNOWN")))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCanceled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
}

func TestRequiresFieldActor(t *testing.T) {
	assert.True(t, StatusEnRoute.RequiresFieldActor())
	assert.True(t, StatusStarted.RequiresFieldActor())
	assert.True(t, StatusInProgress.RequiresFieldActor())
	assert.True(t, StatusCompleted.RequiresFieldActor())

	assert.False(t, StatusPending.RequiresFieldActor())
	assert.False(t, StatusConfirmed.RequiresFieldActor())
	assert.False(t, StatusCanceled.RequiresFieldActor())
}

func TestParseBookingStatus(t *testing.T) {
	status, ok := ParseBookingStatus("EN_ROUTE")
	assert.True(t, ok)
	assert.Equal(t, StatusEnRoute, status)

	_, ok = ParseBookingStatus("en_route")
	assert.False(t, ok, "statuses are case-sensitive")

	_, ok = ParseBookingStatus("DONE")
	assert.False(t, ok)
}

package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

type fakeCounter struct {
	counts map[string]int
}

func (f *fakeCounter) CountActiveOnDate(_ context.Context, date time.Time) (int, error) {
	return f.counts[date.Format(domain.DateFormat)], nil
}

func (f *fakeCounter) CountActiveOnDates(_ context.Context, _, _ time.Time) (map[string]int, error) {
	return f.counts, nil
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// 2026-09-01 12:00, вторник
var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newTestService(counts map[string]int) *Service {
	return NewServiceWithTimeProvider(&fakeCounter{counts: counts}, &fixedClock{now: testNow}, nopLogger{})
}

func TestEvaluate_PastDate(t *testing.T) {
	svc := newTestService(nil)

	result, err := svc.Evaluate(context.Background(), testNow.AddDate(0, 0, -1), domain.SlotMorning)
	require.NoError(t, err)

	assert.False(t, result.Available)
	assert.Equal(t, ReasonPastDate, result.Reason)
}

func TestEvaluate_TooSoon(t *testing.T) {
	svc := newTestService(nil)

	// Завтрашняя полночь в 12 часах от now - меньше суток
	result, err := svc.Evaluate(context.Background(), testNow.AddDate(0, 0, 1), domain.SlotMorning)
	require.NoError(t, err)

	assert.False(t, result.Available)
	assert.Contains(t, result.Reason, "24 hours")
}

func TestEvaluate_SameDayRejected(t *testing.T) {
	svc := newTestService(nil)

	result, err := svc.Evaluate(context.Background(), testNow, domain.SlotAfternoon)
	require.NoError(t, err)

	assert.False(t, result.Available)
	assert.Contains(t, result.Reason, "24 hours")
}

func TestEvaluate_TooFarAhead(t *testing.T) {
	svc := newTestService(nil)

	result, err := svc.Evaluate(context.Background(), testNow.AddDate(0, 0, 61), domain.SlotMorning)
	require.NoError(t, err)

	assert.False(t, result.Available)
	assert.Contains(t, result.Reason, "60 days")
}

func TestEvaluate_UnknownSlot(t *testing.T) {
	svc := newTestService(nil)

	result, err := svc.Evaluate(context.Background(), testNow.AddDate(0, 0, 7), "evening")
	require.NoError(t, err)

	assert.False(t, result.Available)
	assert.Equal(t, ReasonInvalidSlot, result.Reason)
}

func TestEvaluate_DayTaken(t *testing.T) {
	target := testNow.AddDate(0, 0, 7)
	svc := newTestService(map[string]int{
		target.Format(domain.DateFormat): 1,
	})

	result, err := svc.Evaluate(context.Background(), target, domain.SlotAfternoon)
	require.NoError(t, err)

	assert.False(t, result.Available)
	assert.Equal(t, ReasonDayTaken, result.Reason)
	assert.Equal(t, 1, result.ConflictCount)
}

func TestEvaluate_MorningBookingBlocksAfternoon(t *testing.T) {
	// Ёмкость дня - одна бригада: занятый день блокирует оба слота
	target := testNow.AddDate(0, 0, 7)
	svc := newTestService(map[string]int{
		target.Format(domain.DateFormat): 1,
	})

	for _, slot := range []string{domain.SlotMorning, domain.SlotAfternoon} {
		result, err := svc.Evaluate(context.Background(), target, slot)
		require.NoError(t, err)
		assert.False(t, result.Available, "slot %s must be blocked", slot)
	}
}

func TestEvaluate_Available(t *testing.T) {
	svc := newTestService(nil)

	result, err := svc.Evaluate(context.Background(), testNow.AddDate(0, 0, 7), domain.SlotMorning)
	require.NoError(t, err)

	assert.True(t, result.Available)
	assert.Empty(t, result.Reason)
	require.NotNil(t, result.Slot)
	assert.Equal(t, domain.SlotMorning, result.Slot.ID)
	assert.Equal(t, domain.ServiceDurationHours, result.EstimatedDurationHours)
}

func TestEvaluate_ChecksRunInOrder(t *testing.T) {
	// Прошедшая дата с неизвестным слотом: побеждает первая проверка
	svc := newTestService(nil)

	result, err := svc.Evaluate(context.Background(), testNow.AddDate(0, 0, -3), "evening")
	require.NoError(t, err)

	assert.Equal(t, ReasonPastDate, result.Reason)
}

func TestEvaluateRange_Days(t *testing.T) {
	busy := testNow.AddDate(0, 0, 10)
	svc := newTestService(map[string]int{
		busy.Format(domain.DateFormat): 1,
	})

	days, err := svc.EvaluateRange(context.Background(), testNow, 14)
	require.NoError(t, err)
	require.Len(t, days, 14)

	for _, day := range days {
		require.Len(t, day.Slots, 2)
		if day.Date.Format(domain.DateFormat) == busy.Format(domain.DateFormat) {
			for _, slot := range day.Slots {
				assert.False(t, slot.Available)
				assert.Equal(t, ReasonDayTaken, slot.Reason)
			}
		}
	}

	// Сегодня и завтра - ближе суток, недоступны по календарному правилу
	for _, slot := range days[0].Slots {
		assert.False(t, slot.Available)
	}
}

func TestEvaluateRange_ClampsDays(t *testing.T) {
	svc := newTestService(nil)

	days, err := svc.EvaluateRange(context.Background(), testNow, 0)
	require.NoError(t, err)
	assert.Len(t, days, domain.DefaultQueryRangeDays)

	days, err = svc.EvaluateRange(context.Background(), testNow, 500)
	require.NoError(t, err)
	assert.Len(t, days, domain.MaxQueryRangeDays)
}

package availability

import (
	"context"
	"time"
)

// BookingCounter интерфейс репозитория для подсчёта занятости дней
type BookingCounter interface {
	// CountActiveOnDate подсчитывает неотменённые бронирования на календарный день
	CountActiveOnDate(ctx context.Context, date time.Time) (int, error)
	// CountActiveOnDates подсчитывает неотменённые бронирования по дням за период
	// Ключ - дата в формате YYYY-MM-DD
	CountActiveOnDates(ctx context.Context, from, to time.Time) (map[string]int, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

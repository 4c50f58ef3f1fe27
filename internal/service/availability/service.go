package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

// Service вычисляет доступность дней и слотов для бронирования
//
// Сервис вызывается дважды на пути создания бронирования: сначала как
// рекомендательная проверка из публичного API, затем авторитетно внутри
// сериализуемой транзакции записи. Для корректности важна только вторая
// проверка: внутри транзакции репозиторий блокирует строки дня (FOR UPDATE),
// закрывая гонку между двумя клиентами за один день
type Service struct {
	bookings     BookingCounter
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(bookings BookingCounter, logger Logger) *Service {
	return &Service{
		bookings:     bookings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// NewServiceWithTimeProvider создает сервис с инжектированными часами (для тестов)
func NewServiceWithTimeProvider(bookings BookingCounter, tp TimeProvider, logger Logger) *Service {
	return &Service{
		bookings:     bookings,
		timeProvider: tp,
		logger:       logger,
	}
}

// Evaluate проверяет, можно ли забронировать слот на указанную дату
// Проверки выполняются по порядку с остановкой на первой неудачной:
// прошедшая дата, минимальный запас 24ч, максимум 60 дней, рабочий день,
// известный слот, занятость дня. Ёмкость дня равна 1 независимо от слота:
// бизнес - одна мобильная бригада, утреннее бронирование блокирует и вечер
func (s *Service) Evaluate(ctx context.Context, date time.Time, slotID string) (*Result, error) {
	now := s.timeProvider.Now()

	result := s.evaluatePolicy(date, slotID, now)
	if result != nil {
		return result, nil
	}

	count, err := s.bookings.CountActiveOnDate(ctx, date)
	if err != nil {
		s.logger.Error("Evaluate: failed to count bookings for %s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to count bookings: %v", ErrInternal, err)
	}

	return s.evaluateConflicts(date, slotID, count), nil
}

// EvaluateRange возвращает доступность слотов по дням за период
// days <= 0 трактуется как диапазон по умолчанию, верхняя граница - 90 дней
func (s *Service) EvaluateRange(ctx context.Context, from time.Time, days int) ([]DayAvailability, error) {
	if days <= 0 {
		days = domain.DefaultQueryRangeDays
	}
	if days > domain.MaxQueryRangeDays {
		days = domain.MaxQueryRangeDays
	}

	now := s.timeProvider.Now()
	start := domain.NormalizeDate(from)
	end := start.AddDate(0, 0, days-1)

	counts, err := s.bookings.CountActiveOnDates(ctx, start, end)
	if err != nil {
		s.logger.Error("EvaluateRange: failed to count bookings for %s..%s: %v",
			start.Format(domain.DateFormat), end.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to count bookings: %v", ErrInternal, err)
	}

	result := make([]DayAvailability, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		count := counts[day.Format(domain.DateFormat)]

		slots := make([]SlotAvailability, 0, len(domain.TimeSlots))
		for _, slot := range domain.TimeSlots {
			var r *Result
			if policy := s.evaluatePolicy(day, slot.ID, now); policy != nil {
				r = policy
			} else {
				r = s.evaluateConflicts(day, slot.ID, count)
			}
			slots = append(slots, SlotAvailability{
				Slot:          slot,
				Available:     r.Available,
				Reason:        r.Reason,
				ConflictCount: r.ConflictCount,
			})
		}

		result = append(result, DayAvailability{Date: day, Slots: slots})
	}

	return result, nil
}

// evaluatePolicy выполняет календарные проверки, не требующие обращения к БД
// Возвращает nil, если все проверки пройдены и нужна проверка занятости дня
func (s *Service) evaluatePolicy(date time.Time, slotID string, now time.Time) *Result {
	day := domain.NormalizeDate(date)
	today := domain.NormalizeDate(now)

	if day.Before(today) {
		return &Result{Available: false, Reason: ReasonPastDate}
	}

	hoursUntil := day.Sub(now).Hours()
	if hoursUntil < domain.MinAdvanceNoticeHours {
		return &Result{
			Available: false,
			Reason:    fmt.Sprintf("bookings require at least %d hours advance notice", domain.MinAdvanceNoticeHours),
		}
	}

	if hoursUntil/24 > domain.MaxAdvanceDays {
		return &Result{
			Available: false,
			Reason:    fmt.Sprintf("bookings can be made at most %d days in advance", domain.MaxAdvanceDays),
		}
	}

	if !domain.IsWorkingDay(day) {
		return &Result{Available: false, Reason: ReasonClosedDay}
	}

	if _, ok := domain.SlotByID(slotID); !ok {
		return &Result{Available: false, Reason: ReasonInvalidSlot}
	}

	return nil
}

// evaluateConflicts завершает проверку по числу занятых мест дня
func (s *Service) evaluateConflicts(date time.Time, slotID string, count int) *Result {
	if count >= domain.DailyCapacity {
		return &Result{
			Available:     false,
			Reason:        ReasonDayTaken,
			ConflictCount: count,
		}
	}

	slot, _ := domain.SlotByID(slotID)
	return &Result{
		Available:              true,
		Slot:                   &slot,
		EstimatedDurationHours: domain.ServiceDurationHours,
	}
}

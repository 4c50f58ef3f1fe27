package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	storage "github.com/m04kA/SMC-DetailingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DetailingService/internal/notify"
)

// Service реализует жизненный цикл бронирования: переходы статусов,
// клиентскую отмену и чтение для диспетчерской и детейлеров
//
// Все переходы выполняются в сериализуемой транзакции: чтение блокирует
// строку (FOR UPDATE), поэтому конкурентные переходы по одному бронированию
// выстраиваются в очередь и не теряют обновления
type Service struct {
	bookings     BookingRepository
	txManager    TxManager
	notifier     NotifyDispatcher
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса жизненного цикла бронирований
func NewService(bookings BookingRepository, txManager TxManager, notifier NotifyDispatcher, logger Logger) *Service {
	return &Service{
		bookings:     bookings,
		txManager:    txManager,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// NewServiceWithTimeProvider создает сервис с инжектированными часами (для тестов)
func NewServiceWithTimeProvider(bookings BookingRepository, txManager TxManager, notifier NotifyDispatcher, tp TimeProvider, logger Logger) *Service {
	return &Service{
		bookings:     bookings,
		txManager:    txManager,
		notifier:     notifier,
		timeProvider: tp,
		logger:       logger,
	}
}

// ApplyTransition применяет переход статуса бронирования
//
// Порядок проверок:
//  1. бронирование существует
//  2. целевой статус равен текущему - идемпотентный no-op, изменения не пишутся
//  3. детейлер не может менять чужое бронирование
//  4. переход допустим по таблице переходов, иначе InvalidTransitionError
//     со списком допустимых статусов
//
// Переход неназначенного бронирования в полевой статус (EN_ROUTE и далее)
// атомарно закрепляет бронирование за действующим детейлером
func (s *Service) ApplyTransition(ctx context.Context, req TransitionRequest) (*domain.Booking, error) {
	if !req.Target.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatus, req.Target)
	}

	notes, err := normalizeNotes(req.Notes)
	if err != nil {
		return nil, err
	}

	var updated *domain.Booking
	var changed bool

	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		booking, err := s.bookings.GetByID(ctx, req.BookingID)
		if err != nil {
			if errors.Is(err, storage.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.Status == req.Target {
			updated = booking
			return nil
		}

		if req.ActorDetailerID != nil && booking.DetailerID != nil && *booking.DetailerID != *req.ActorDetailerID {
			return ErrNotYourBooking
		}

		if !domain.CanTransition(booking.Status, req.Target) {
			return &InvalidTransitionError{
				From:    booking.Status,
				To:      req.Target,
				Allowed: domain.AllowedNextStatuses(booking.Status),
			}
		}

		upd := storage.StatusUpdate{Status: req.Target, Notes: notes}

		if req.ActorDetailerID != nil && booking.DetailerID == nil && req.Target.RequiresFieldActor() {
			upd.ClaimDetailerID = req.ActorDetailerID
		}

		s.stampTimestamps(booking, req.Target, &upd)

		if err := s.bookings.UpdateStatus(ctx, booking.ID, upd); err != nil {
			if errors.Is(err, storage.ErrAlreadyAssigned) {
				return ErrAlreadyAssigned
			}
			if errors.Is(err, storage.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}

		updated, err = s.bookings.GetByID(ctx, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, err)
		}

		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.notifyStatusChange(updated)
	}

	return updated, nil
}

// MarkCompleted завершает бронирование из любого нетерминального статуса
// Повторное завершение - идемпотентный no-op. Бригада в поле не всегда
// отмечает промежуточные статусы, поэтому прямое завершение из CONFIRMED
// допустимо и не считается нарушением таблицы переходов
func (s *Service) MarkCompleted(ctx context.Context, bookingID int64, actorDetailerID *int64, notes *string) (*domain.Booking, error) {
	normalized, err := normalizeNotes(notes)
	if err != nil {
		return nil, err
	}

	var updated *domain.Booking
	var changed bool

	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		booking, err := s.bookings.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, storage.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.Status == domain.StatusCompleted {
			updated = booking
			return nil
		}

		if booking.Status == domain.StatusCanceled {
			return &InvalidTransitionError{
				From:    booking.Status,
				To:      domain.StatusCompleted,
				Allowed: domain.AllowedNextStatuses(booking.Status),
			}
		}

		if actorDetailerID != nil && booking.DetailerID != nil && *booking.DetailerID != *actorDetailerID {
			return ErrNotYourBooking
		}

		upd := storage.StatusUpdate{Status: domain.StatusCompleted, Notes: normalized}

		if actorDetailerID != nil && booking.DetailerID == nil {
			upd.ClaimDetailerID = actorDetailerID
		}

		s.stampTimestamps(booking, domain.StatusCompleted, &upd)

		if err := s.bookings.UpdateStatus(ctx, booking.ID, upd); err != nil {
			if errors.Is(err, storage.ErrAlreadyAssigned) {
				return ErrAlreadyAssigned
			}
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}

		updated, err = s.bookings.GetByID(ctx, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, err)
		}

		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.notifyStatusChange(updated)
	}

	return updated, nil
}

// CancelByConfirmationCode отменяет бронирование по коду подтверждения (клиентская отмена)
// Отмена допустима только до начала работ (PENDING, CONFIRMED).
// Повторная отмена - идемпотентный no-op
func (s *Service) CancelByConfirmationCode(ctx context.Context, code string, reason *string) (*domain.Booking, error) {
	normalized, err := normalizeNotes(reason)
	if err != nil {
		return nil, err
	}

	var updated *domain.Booking
	var changed bool

	err = s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		booking, err := s.bookings.GetByConfirmationCode(ctx, code)
		if err != nil {
			if errors.Is(err, storage.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.Status == domain.StatusCanceled {
			updated = booking
			return nil
		}

		if !booking.CanBeCanceledByCustomer() {
			return ErrCancelNotAllowed
		}

		upd := storage.StatusUpdate{Status: domain.StatusCanceled, Notes: normalized}

		if err := s.bookings.UpdateStatus(ctx, booking.ID, upd); err != nil {
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		updated, err = s.bookings.GetByID(ctx, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, err)
		}

		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.notifier.Dispatch(recipientFor(updated), notify.KindBookingCanceled, payloadFor(updated))
	}

	return updated, nil
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	return booking, nil
}

// GetByConfirmationCode получает бронирование по коду подтверждения
func (s *Service) GetByConfirmationCode(ctx context.Context, code string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByConfirmationCode(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	return booking, nil
}

// List получает бронирования с фильтрацией для диспетчерской
func (s *Service) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	list, err := s.bookings.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}
	return list, nil
}

// DaySheet получает наряд детейлера на день: его бронирования на дату
func (s *Service) DaySheet(ctx context.Context, detailerID int64, date time.Time) ([]*domain.Booking, error) {
	day := domain.NormalizeDate(date)
	filter := domain.BookingsFilter{
		StartDate:  &day,
		EndDate:    &day,
		DetailerID: &detailerID,
	}

	list, err := s.bookings.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list detailer bookings: %v", ErrInternal, err)
	}
	return list, nil
}

// stampTimestamps проставляет таймстемпы жизненного цикла для целевого статуса
// Уже проставленный таймстемп не перезаписывается
func (s *Service) stampTimestamps(booking *domain.Booking, target domain.BookingStatus, upd *storage.StatusUpdate) {
	now := s.timeProvider.Now()

	switch target {
	case domain.StatusEnRoute:
		if booking.EnRouteAt == nil {
			upd.EnRouteAt = &now
		}
	case domain.StatusStarted:
		if booking.StartedAt == nil {
			upd.StartedAt = &now
		}
	case domain.StatusCompleted:
		if booking.CompletedAt == nil {
			upd.CompletedAt = &now
		}
	}
}

func (s *Service) notifyStatusChange(booking *domain.Booking) {
	kind := notify.KindStatusUpdate
	if booking.Status == domain.StatusCanceled {
		kind = notify.KindBookingCanceled
	} else if booking.Status == domain.StatusConfirmed {
		kind = notify.KindBookingConfirmed
	}
	s.notifier.Dispatch(recipientFor(booking), kind, payloadFor(booking))
}

func recipientFor(booking *domain.Booking) notify.Recipient {
	return notify.Recipient{
		Name:  booking.CustomerName,
		Phone: booking.CustomerPhone,
		Email: booking.CustomerEmail,
	}
}

func payloadFor(booking *domain.Booking) notify.Payload {
	return notify.Payload{
		"confirmationCode": booking.ConfirmationCode,
		"status":           string(booking.Status),
		"date":             booking.Date.Format(domain.DateFormat),
		"timeSlot":         booking.TimeSlot,
	}
}

// normalizeNotes обрезает пробелы и проверяет длину заметок
func normalizeNotes(notes *string) (*string, error) {
	if notes == nil {
		return nil, nil
	}

	trimmed := strings.TrimSpace(*notes)
	if len(trimmed) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return &trimmed, nil
}

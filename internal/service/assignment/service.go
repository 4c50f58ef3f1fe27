package assignment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	storage "github.com/m04kA/SMC-DetailingService/internal/infra/storage/booking"
)

// Service реализует политику назначения детейлеров на бронирования:
// ручное назначение диспетчером и автоназначение по наименьшей нагрузке
type Service struct {
	bookings  BookingRepository
	detailers DetailerRepository
	txManager TxManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса назначений
func NewService(bookings BookingRepository, detailers DetailerRepository, txManager TxManager, logger Logger) *Service {
	return &Service{
		bookings:  bookings,
		detailers: detailers,
		txManager: txManager,
		logger:    logger,
	}
}

// AssignManually назначает указанного детейлера на бронирование
//
// Назначение - compare-and-swap по detailer_id IS NULL: повторное назначение
// и конкурентное назначение двумя диспетчерами возвращают ErrAlreadyAssigned.
// PENDING-бронирование при назначении автоматически подтверждается
func (s *Service) AssignManually(ctx context.Context, bookingID, detailerID int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if !booking.IsActive() {
		return nil, ErrBookingCanceled
	}
	if booking.IsAssigned() {
		return nil, ErrAlreadyAssigned
	}

	detailer, err := s.detailers.GetByID(ctx, detailerID)
	if err != nil {
		return nil, ErrDetailerNotFound
	}
	if !detailer.IsActive {
		return nil, ErrDetailerInactive
	}

	if err := s.bookings.AssignDetailer(ctx, bookingID, detailerID); err != nil {
		switch {
		case errors.Is(err, storage.ErrAlreadyAssigned):
			return nil, ErrAlreadyAssigned
		case errors.Is(err, storage.ErrBookingNotFound):
			return nil, ErrBookingNotFound
		default:
			return nil, fmt.Errorf("%w: failed to assign detailer: %v", ErrInternal, err)
		}
	}

	updated, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, err)
	}

	s.logger.Info("assignment: booking %d assigned to detailer %d", bookingID, detailerID)

	return updated, nil
}

// AssignAutomatically назначает детейлера с наименьшей нагрузкой на день бронирования
//
// Нагрузка - число бронирований детейлера на этот день в статусах
// CONFIRMED и IN_PROGRESS. При равной нагрузке выбирается детейлер
// с меньшим ID: ListActive отдаёт кандидатов по ID по возрастанию,
// а сравнение строгое, поэтому первый из минимальных побеждает.
// Выполняется в сериализуемой транзакции: конкурентные автоназначения
// на один день не могут одновременно увидеть одну и ту же нагрузку
func (s *Service) AssignAutomatically(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	var updated *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		booking, err := s.bookings.GetByID(ctx, bookingID)
		if err != nil {
			if errors.Is(err, storage.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if !booking.IsActive() {
			return ErrBookingCanceled
		}
		if booking.IsAssigned() {
			return ErrAlreadyAssigned
		}

		candidates, err := s.detailers.ListActive(ctx)
		if err != nil {
			return fmt.Errorf("%w: failed to list active detailers: %v", ErrInternal, err)
		}
		if len(candidates) == 0 {
			return ErrNoActiveDetailers
		}

		chosen, err := s.pickLeastLoaded(ctx, candidates, booking)
		if err != nil {
			return err
		}

		if err := s.bookings.AssignDetailer(ctx, bookingID, chosen.ID); err != nil {
			switch {
			case errors.Is(err, storage.ErrAlreadyAssigned):
				return ErrAlreadyAssigned
			case errors.Is(err, storage.ErrBookingNotFound):
				return ErrBookingNotFound
			default:
				return fmt.Errorf("%w: failed to assign detailer: %v", ErrInternal, err)
			}
		}

		updated, err = s.bookings.GetByID(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("%w: failed to reload booking: %v", ErrInternal, err)
		}

		s.logger.Info("assignment: booking %d auto-assigned to detailer %d", bookingID, chosen.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// pickLeastLoaded выбирает из кандидатов детейлера с наименьшей нагрузкой
// на день бронирования. Кандидаты отсортированы по ID, сравнение строгое
func (s *Service) pickLeastLoaded(ctx context.Context, candidates []*domain.Detailer, booking *domain.Booking) (*domain.Detailer, error) {
	var chosen *domain.Detailer
	minLoad := 0

	for _, d := range candidates {
		load, err := s.bookings.CountActiveByDetailerOnDate(ctx, d.ID, booking.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to count load for detailer %d: %v", ErrInternal, d.ID, err)
		}

		if chosen == nil || load < minLoad {
			chosen = d
			minLoad = load
		}
	}

	return chosen, nil
}

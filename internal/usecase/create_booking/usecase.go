package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	catalogstorage "github.com/m04kA/SMC-DetailingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-DetailingService/internal/notify"
	"github.com/m04kA/SMC-DetailingService/pkg/confirmcode"
)

// UseCase создание бронирования: валидация, расчет стоимости по каталогу,
// выделение уникального кода подтверждения и запись
//
// Запись и авторитетная проверка доступности выполняются в одной сериализуемой
// транзакции. Проверка блокирует строки дня, поэтому два конкурентных запроса
// на один день не могут пройти оба
type UseCase struct {
	bookings     BookingRepository
	catalog      CatalogRepository
	availability AvailabilityEvaluator
	txManager    TxManager
	notifier     NotifyDispatcher
	logger       Logger
	generateCode func() (string, error)
}

// NewUseCase создает новый экземпляр юзкейса создания бронирования
func NewUseCase(
	bookings BookingRepository,
	catalog CatalogRepository,
	availability AvailabilityEvaluator,
	txManager TxManager,
	notifier NotifyDispatcher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookings:     bookings,
		catalog:      catalog,
		availability: availability,
		txManager:    txManager,
		notifier:     notifier,
		logger:       logger,
		generateCode: confirmcode.Generate,
	}
}

// NewUseCaseWithCodeGenerator создает юзкейс с инжектированным генератором
// кодов подтверждения (для тестов)
func NewUseCaseWithCodeGenerator(
	bookings BookingRepository,
	catalog CatalogRepository,
	availability AvailabilityEvaluator,
	txManager TxManager,
	notifier NotifyDispatcher,
	logger Logger,
	generateCode func() (string, error),
) *UseCase {
	u := NewUseCase(bookings, catalog, availability, txManager, notifier, logger)
	u.generateCode = generateCode
	return u
}

// Execute выполняет создание бронирования
func (u *UseCase) Execute(ctx context.Context, req *Request) (*domain.Booking, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	vehicleType, _ := domain.ParseVehicleType(req.VehicleType)

	services, err := u.catalog.GetServicesByIDs(ctx, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, catalogstorage.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("%w: failed to load services: %v", ErrInternal, err)
	}

	addOns, err := u.catalog.GetAddOnsByIDs(ctx, req.AddOnIDs)
	if err != nil {
		if errors.Is(err, catalogstorage.ErrAddOnNotFound) {
			return nil, ErrAddOnNotFound
		}
		return nil, fmt.Errorf("%w: failed to load add-ons: %v", ErrInternal, err)
	}

	totalPrice, duration := computePriceAndDuration(vehicleType, services, addOns)

	status := req.InitialStatus
	if status == "" {
		status = domain.StatusPending
	}

	booking := &domain.Booking{
		CustomerName:           strings.TrimSpace(req.CustomerName),
		CustomerEmail:          strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CustomerPhone:          strings.TrimSpace(req.CustomerPhone),
		Address:                strings.TrimSpace(req.Address),
		City:                   strings.TrimSpace(req.City),
		PostalCode:             strings.TrimSpace(req.PostalCode),
		VehicleType:            vehicleType,
		VehicleMake:            strings.TrimSpace(req.VehicleMake),
		VehicleModel:           strings.TrimSpace(req.VehicleModel),
		VehicleYear:            req.VehicleYear,
		ServiceIDs:             req.ServiceIDs,
		AddOnIDs:               req.AddOnIDs,
		Date:                   domain.NormalizeDate(req.Date),
		TimeSlot:               req.TimeSlot,
		Status:                 status,
		TotalPrice:             totalPrice,
		EstimatedDurationHours: duration,
		SpecialInstructions:    req.SpecialInstructions,
	}

	err = u.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		result, err := u.availability.Evaluate(ctx, booking.Date, booking.TimeSlot)
		if err != nil {
			return fmt.Errorf("%w: failed to evaluate availability: %v", ErrInternal, err)
		}
		if !result.Available {
			return &UnavailableError{Reason: result.Reason, ConflictCount: result.ConflictCount}
		}

		code, err := u.allocateConfirmationCode(ctx)
		if err != nil {
			return err
		}
		booking.ConfirmationCode = code

		if _, err := u.bookings.Create(ctx, booking); err != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("create_booking: booking %d created, code %s, date %s slot %s",
		booking.ID, booking.ConfirmationCode, booking.Date.Format(domain.DateFormat), booking.TimeSlot)

	kind := notify.KindBookingReceived
	if booking.Status == domain.StatusConfirmed {
		kind = notify.KindBookingConfirmed
	}
	u.notifier.Dispatch(notify.Recipient{
		Name:  booking.CustomerName,
		Phone: booking.CustomerPhone,
		Email: booking.CustomerEmail,
	}, kind, notify.Payload{
		"confirmationCode": booking.ConfirmationCode,
		"date":             booking.Date.Format(domain.DateFormat),
		"timeSlot":         booking.TimeSlot,
	})

	return booking, nil
}

// allocateConfirmationCode подбирает свободный код подтверждения
// Коллизии на 36^8 кодов редки, лимит попыток страхует от вырожденного генератора
func (u *UseCase) allocateConfirmationCode(ctx context.Context) (string, error) {
	for i := 0; i < domain.ConfirmationCodeMaxRetries; i++ {
		code, err := u.generateCode()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCodeGeneration, err)
		}

		exists, err := u.bookings.ExistsByConfirmationCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("%w: failed to check code uniqueness: %v", ErrInternal, err)
		}
		if !exists {
			return code, nil
		}
	}

	return "", ErrCodeGeneration
}

func computePriceAndDuration(vt domain.VehicleType, services []*domain.CatalogService, addOns []*domain.AddOn) (float64, float64) {
	var price, duration float64

	for _, s := range services {
		price += s.PriceFor(vt)
		duration += s.DurationHours
	}
	for _, a := range addOns {
		price += a.PriceFor(vt)
		duration += domain.AddOnDurationHours
	}

	if duration == 0 {
		duration = domain.ServiceDurationHours
	}

	return price, duration
}

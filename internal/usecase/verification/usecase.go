package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/internal/infra/sessionstore"
	"github.com/m04kA/SMC-DetailingService/internal/notify"
	"github.com/m04kA/SMC-DetailingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-DetailingService/pkg/confirmcode"
)

// UseCase SMS-верификация телефона перед созданием бронирования
//
// Initiate валидирует черновик бронирования, сохраняет его в сессию с TTL
// и отправляет клиенту 6-значный код. Confirm сверяет код и превращает
// черновик в бронирование со статусом CONFIRMED. Черновик не занимает
// слот до подтверждения: авторитетная проверка доступности происходит
// только в момент создания записи
type UseCase struct {
	sessions     SessionStore
	creator      BookingCreator
	notifier     NotifyDispatcher
	sessionTTL   time.Duration
	maxAttempts  int
	timeProvider TimeProvider
	logger       Logger
	generateCode func() (string, error)
}

// NewUseCase создает новый экземпляр юзкейса верификации
func NewUseCase(
	sessions SessionStore,
	creator BookingCreator,
	notifier NotifyDispatcher,
	sessionTTL time.Duration,
	maxAttempts int,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessions:     sessions,
		creator:      creator,
		notifier:     notifier,
		sessionTTL:   sessionTTL,
		maxAttempts:  maxAttempts,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		generateCode: confirmcode.GenerateSMSCode,
	}
}

// NewUseCaseWithDeps создает юзкейс с инжектированными часами и генератором кодов (для тестов)
func NewUseCaseWithDeps(
	sessions SessionStore,
	creator BookingCreator,
	notifier NotifyDispatcher,
	sessionTTL time.Duration,
	maxAttempts int,
	tp TimeProvider,
	logger Logger,
	generateCode func() (string, error),
) *UseCase {
	u := NewUseCase(sessions, creator, notifier, sessionTTL, maxAttempts, logger)
	u.timeProvider = tp
	u.generateCode = generateCode
	return u
}

// InitiateResult результат начала верификации
type InitiateResult struct {
	SessionID string
	ExpiresAt time.Time
}

// Initiate начинает верификацию: валидирует черновик, создает сессию
// и асинхронно отправляет код на телефон клиента
func (u *UseCase) Initiate(ctx context.Context, draft *create_booking.Request) (*InitiateResult, error) {
	// Черновик проверяется целиком до отправки SMS: клиент не должен
	// пройти верификацию ради заведомо невалидного бронирования
	draft.InitialStatus = ""
	if err := create_booking.ValidateRequest(draft); err != nil {
		return nil, err
	}

	code, err := u.generateCode()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate code: %v", ErrInternal, err)
	}

	payload, err := json.Marshal(draft)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal draft: %v", ErrInternal, err)
	}

	now := u.timeProvider.Now()
	session := &sessionstore.Session{
		ID:        uuid.NewString(),
		Code:      code,
		Phone:     draft.CustomerPhone,
		Draft:     payload,
		ExpiresAt: now.Add(u.sessionTTL),
	}

	if err := u.sessions.Put(ctx, session, u.sessionTTL); err != nil {
		return nil, fmt.Errorf("%w: failed to store session: %v", ErrInternal, err)
	}

	u.notifier.Dispatch(notify.Recipient{
		Name:  draft.CustomerName,
		Phone: draft.CustomerPhone,
	}, notify.KindVerificationCode, notify.Payload{
		"code": code,
	})

	u.logger.Info("verification: session %s initiated for phone %s", session.ID, maskPhone(draft.CustomerPhone))

	return &InitiateResult{SessionID: session.ID, ExpiresAt: session.ExpiresAt}, nil
}

// Confirm сверяет код и создает бронирование из черновика сессии
//
// Неверный код тратит попытку, после исчерпания попыток сессия удаляется.
// Счётчик попыток инкрементируется атомарно в хранилище: конкурентные
// вызовы на одну сессию не дают лишних попыток
func (u *UseCase) Confirm(ctx context.Context, sessionID, code string) (*domain.Booking, error) {
	session, err := u.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionstore.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: failed to get session: %v", ErrInternal, err)
	}

	now := u.timeProvider.Now()
	if session.Expired(now) {
		u.deleteSession(ctx, sessionID)
		return nil, ErrSessionExpired
	}

	if session.Attempts >= u.maxAttempts {
		u.deleteSession(ctx, sessionID)
		return nil, ErrTooManyAttempts
	}

	attempts, err := u.sessions.IncrementAttempts(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionstore.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: failed to increment attempts: %v", ErrInternal, err)
	}

	if code != session.Code {
		remaining := u.maxAttempts - attempts
		if remaining <= 0 {
			u.deleteSession(ctx, sessionID)
			return nil, ErrTooManyAttempts
		}
		return nil, &InvalidCodeError{Remaining: remaining}
	}

	var draft create_booking.Request
	if err := json.Unmarshal(session.Draft, &draft); err != nil {
		u.deleteSession(ctx, sessionID)
		return nil, fmt.Errorf("%w: failed to unmarshal draft: %v", ErrInternal, err)
	}

	// Телефон подтвержден - бронирование создается сразу подтвержденным
	draft.InitialStatus = domain.StatusConfirmed

	booking, err := u.creator.Execute(ctx, &draft)
	if err != nil {
		// Сессия остаётся: клиент может выбрать другой день, если слот заняли
		return nil, err
	}

	u.deleteSession(ctx, sessionID)

	u.logger.Info("verification: session %s confirmed, booking %d created", sessionID, booking.ID)

	return booking, nil
}

func (u *UseCase) deleteSession(ctx context.Context, id string) {
	if err := u.sessions.Delete(ctx, id); err != nil && !errors.Is(err, sessionstore.ErrSessionNotFound) {
		u.logger.Warn("verification: failed to delete session %s: %v", id, err)
	}
}

func maskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return "****" + phone[len(phone)-4:]
}

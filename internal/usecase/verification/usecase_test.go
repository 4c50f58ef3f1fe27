package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	"github.com/m04kA/SMC-DetailingService/internal/infra/sessionstore"
	"github.com/m04kA/SMC-DetailingService/internal/notify"
	"github.com/m04kA/SMC-DetailingService/internal/usecase/create_booking"
)

type fakeSessionStore struct {
	sessions map[string]*sessionstore.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*sessionstore.Session)}
}

func (f *fakeSessionStore) Put(_ context.Context, session *sessionstore.Session, _ time.Duration) error {
	copied := *session
	f.sessions[session.ID] = &copied
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, id string) (*sessionstore.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, sessionstore.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionStore) IncrementAttempts(_ context.Context, id string) (int, error) {
	s, ok := f.sessions[id]
	if !ok {
		return 0, sessionstore.ErrSessionNotFound
	}
	s.Attempts++
	return s.Attempts, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, id string) error {
	if _, ok := f.sessions[id]; !ok {
		return sessionstore.ErrSessionNotFound
	}
	delete(f.sessions, id)
	return nil
}

type fakeCreator struct {
	booking *domain.Booking
	err     error
	gotReq  *create_booking.Request
}

func (f *fakeCreator) Execute(_ context.Context, req *create_booking.Request) (*domain.Booking, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.booking, nil
}

type fakeDispatcher struct {
	kinds    []notify.Kind
	payloads []notify.Payload
}

func (f *fakeDispatcher) Dispatch(_ notify.Recipient, kind notify.Kind, payload notify.Payload) {
	f.kinds = append(f.kinds, kind)
	f.payloads = append(f.payloads, payload)
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func validDraft() *create_booking.Request {
	return &create_booking.Request{
		CustomerName:  "Иван Петров",
		CustomerEmail: "ivan@example.com",
		CustomerPhone: "+79990001122",
		Address:       "ул. Ленина, 1",
		City:          "Москва",
		VehicleType:   "Sedan",
		VehicleMake:   "Lada",
		VehicleModel:  "Vesta",
		VehicleYear:   2021,
		ServiceIDs:    []int64{1},
		Date:          time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
		TimeSlot:      domain.SlotMorning,
	}
}

func newTestUseCase(store *fakeSessionStore, creator *fakeCreator, dispatcher *fakeDispatcher) *UseCase {
	clock := &fixedClock{now: testNow}
	return NewUseCaseWithDeps(store, creator, dispatcher, 10*time.Minute, 3, clock, nopLogger{},
		func() (string, error) { return "123456", nil })
}

func TestInitiate(t *testing.T) {
	store := newFakeSessionStore()
	dispatcher := &fakeDispatcher{}
	uc := newTestUseCase(store, &fakeCreator{}, dispatcher)

	result, err := uc.Initiate(context.Background(), validDraft())
	require.NoError(t, err)

	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, testNow.Add(10*time.Minute), result.ExpiresAt)

	session, ok := store.sessions[result.SessionID]
	require.True(t, ok)
	assert.Equal(t, "123456", session.Code)
	assert.NotEmpty(t, session.Draft)

	require.Equal(t, []notify.Kind{notify.KindVerificationCode}, dispatcher.kinds)
	assert.Equal(t, "123456", dispatcher.payloads[0]["code"])
}

func TestInitiate_InvalidDraft(t *testing.T) {
	store := newFakeSessionStore()
	dispatcher := &fakeDispatcher{}
	uc := newTestUseCase(store, &fakeCreator{}, dispatcher)

	draft := validDraft()
	draft.CustomerPhone = "123"

	_, err := uc.Initiate(context.Background(), draft)
	assert.ErrorIs(t, err, create_booking.ErrInvalidInput)
	assert.Empty(t, store.sessions, "invalid draft must not create a session")
	assert.Empty(t, dispatcher.kinds, "invalid draft must not send a code")
}

func TestConfirm_HappyPath(t *testing.T) {
	store := newFakeSessionStore()
	creator := &fakeCreator{booking: &domain.Booking{ID: 7, Status: domain.StatusConfirmed}}
	uc := newTestUseCase(store, creator, &fakeDispatcher{})

	result, err := uc.Initiate(context.Background(), validDraft())
	require.NoError(t, err)

	booking, err := uc.Confirm(context.Background(), result.SessionID, "123456")
	require.NoError(t, err)

	assert.Equal(t, int64(7), booking.ID)
	require.NotNil(t, creator.gotReq)
	assert.Equal(t, domain.StatusConfirmed, creator.gotReq.InitialStatus)
	assert.Empty(t, store.sessions, "session must be deleted after confirmation")
}

func TestConfirm_WrongCodeCountsDown(t *testing.T) {
	store := newFakeSessionStore()
	uc := newTestUseCase(store, &fakeCreator{}, &fakeDispatcher{})

	result, err := uc.Initiate(context.Background(), validDraft())
	require.NoError(t, err)

	_, err = uc.Confirm(context.Background(), result.SessionID, "000000")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCode)

	var invalid *InvalidCodeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 2, invalid.Remaining)

	_, err = uc.Confirm(context.Background(), result.SessionID, "000000")
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 1, invalid.Remaining)
}

func TestConfirm_TooManyAttemptsDeletesSession(t *testing.T) {
	store := newFakeSessionStore()
	uc := newTestUseCase(store, &fakeCreator{}, &fakeDispatcher{})

	result, err := uc.Initiate(context.Background(), validDraft())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = uc.Confirm(context.Background(), result.SessionID, "000000")
		assert.ErrorIs(t, err, ErrInvalidCode)
	}

	// Третья неверная попытка исчерпывает лимит
	_, err = uc.Confirm(context.Background(), result.SessionID, "000000")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	assert.Empty(t, store.sessions)

	// Правильный код после исчерпания уже не принимается
	_, err = uc.Confirm(context.Background(), result.SessionID, "123456")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestConfirm_ExpiredSession(t *testing.T) {
	store := newFakeSessionStore()
	clock := &fixedClock{now: testNow}
	uc := NewUseCaseWithDeps(store, &fakeCreator{}, &fakeDispatcher{}, 10*time.Minute, 3, clock, nopLogger{},
		func() (string, error) { return "123456", nil })

	result, err := uc.Initiate(context.Background(), validDraft())
	require.NoError(t, err)

	clock.now = testNow.Add(11 * time.Minute)

	_, err = uc.Confirm(context.Background(), result.SessionID, "123456")
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Empty(t, store.sessions)
}

func TestConfirm_UnknownSession(t *testing.T) {
	uc := newTestUseCase(newFakeSessionStore(), &fakeCreator{}, &fakeDispatcher{})

	_, err := uc.Confirm(context.Background(), "no-such-session", "123456")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestConfirm_SessionSurvivesCreationFailure(t *testing.T) {
	// Слот заняли, пока клиент вводил код: сессия остаётся,
	// клиент может подтвердить бронирование на другой день
	store := newFakeSessionStore()
	creator := &fakeCreator{err: &create_booking.UnavailableError{Reason: "time slot unavailable"}}
	uc := newTestUseCase(store, creator, &fakeDispatcher{})

	result, err := uc.Initiate(context.Background(), validDraft())
	require.NoError(t, err)

	_, err = uc.Confirm(context.Background(), result.SessionID, "123456")
	require.Error(t, err)
	assert.True(t, errors.Is(err, create_booking.ErrSlotUnavailable))

	assert.Len(t, store.sessions, 1, "session must survive a failed booking creation")
}

package bookings

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	storage "github.com/m04kA/SMC-DetailingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DetailingService/internal/notify"
	"github.com/m04kA/SMC-DetailingService/pkg/ptr"
)

type fakeRepo struct {
	mu       sync.Mutex
	bookings map[int64]*domain.Booking
	updates  []storage.StatusUpdate
}

func newFakeRepo(bookings ...*domain.Booking) *fakeRepo {
	m := make(map[int64]*domain.Booking, len(bookings))
	for _, b := range bookings {
		m[b.ID] = b
	}
	return &fakeRepo{bookings: m}
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, storage.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRepo) GetByConfirmationCode(_ context.Context, code string) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ConfirmationCode == code {
			copied := *b
			return &copied, nil
		}
	}
	return nil, storage.ErrBookingNotFound
}

func (f *fakeRepo) ListWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if filter.DetailerID != nil && (b.DetailerID == nil || *b.DetailerID != *filter.DetailerID) {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id int64, upd storage.StatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bookings[id]
	if !ok {
		return storage.ErrBookingNotFound
	}
	if upd.ClaimDetailerID != nil && b.DetailerID != nil {
		return storage.ErrAlreadyAssigned
	}

	f.updates = append(f.updates, upd)

	b.Status = upd.Status
	if upd.Notes != nil {
		b.Notes = upd.Notes
	}
	if upd.ClaimDetailerID != nil {
		b.DetailerID = upd.ClaimDetailerID
	}
	if upd.EnRouteAt != nil {
		b.EnRouteAt = upd.EnRouteAt
	}
	if upd.StartedAt != nil {
		b.StartedAt = upd.StartedAt
	}
	if upd.CompletedAt != nil {
		b.CompletedAt = upd.CompletedAt
	}
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeDispatcher struct {
	mu    sync.Mutex
	kinds []notify.Kind
}

func (f *fakeDispatcher) Dispatch(_ notify.Recipient, kind notify.Kind, _ notify.Payload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kinds = append(f.kinds, kind)
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2026, 9, 10, 9, 30, 0, 0, time.UTC)

func newTestService(repo *fakeRepo) (*Service, *fakeDispatcher) {
	dispatcher := &fakeDispatcher{}
	svc := NewServiceWithTimeProvider(repo, fakeTxManager{}, dispatcher, &fixedClock{now: testNow}, nopLogger{})
	return svc, dispatcher
}

func testBooking(status domain.BookingStatus, detailerID *int64) *domain.Booking {
	return &domain.Booking{
		ID:               1,
		ConfirmationCode: "A1B2C3D4",
		CustomerName:     "Ivan",
		CustomerPhone:    "+79990001122",
		Date:             time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		TimeSlot:         domain.SlotMorning,
		Status:           status,
		DetailerID:       detailerID,
	}
}

func TestApplyTransition_Valid(t *testing.T) {
	repo := newFakeRepo(testBooking(domain.StatusPending, nil))
	svc, dispatcher := newTestService(repo)

	updated, err := svc.ApplyTransition(context.Background(), TransitionRequest{
		BookingID: 1,
		Target:    domain.StatusConfirmed,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, updated.Status)
	require.Len(t, repo.updates, 1)
	assert.Equal(t, []notify.Kind{notify.KindBookingConfirmed}, dispatcher.kinds)
}

func TestApplyTransition_SameStatusIsNoop(t *testing.T) {
	repo := newFakeRepo(testBooking(domain.StatusConfirmed, nil))
	svc, dispatcher := newTestService(repo)

	updated, err := svc.ApplyTransition(context.Background(), TransitionRequest{
		BookingID: 1,
		Target:    domain.StatusConfirmed,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, updated.Status)
	assert.Empty(t, repo.updates, "no-op must not write")
	assert.Empty(t, dispatcher.kinds, "no-op must not notify")
}

func TestApplyTransition_InvalidCarriesAllowed(t *testing.T) {
	repo := newFakeRepo(testBooking(domain.StatusConfirmed, nil))
	svc, _ := newTestService(repo)

	_, err := svc.ApplyTransition(context.Background(), TransitionRequest{
		BookingID: 1,
		Target:    domain.StatusCompleted,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, domain.StatusConfirmed, invalid.From)
	assert.Equal(t, domain.StatusCompleted, invalid.To)
	assert.ElementsMatch(t, []domain.BookingStatus{domain.StatusEnRoute, domain.StatusCanceled}, invalid.Allowed)
}

func TestApplyTransition_UnknownStatus(t *testing.T) {
	repo := newFakeRepo(testBooking(domain.StatusConfirmed, nil))
	svc, _ := newTestService(repo)

	_, err := svc.ApplyTransition(context.Background(), TransitionRequest{
		BookingID: 1,
		Target:    domain.BookingStatus("DONE"),
	})
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestApplyTransition_ForeignBookingForbidden(t *testing.T) {
	repo := newFakeRepo(testBooking(domain.StatusConfirmed, ptr.Ptr(int64(1))))
	svc, _ := newTestService(repo)

	_, err := svc.ApplyTransition(context.Background(), TransitionRequest{
		BookingID:       1,
		Target:          domain.StatusEnRoute,
		ActorDetailerID: ptr.Ptr(int64(2)),
	})
	assert.ErrorIs(t, err, ErrNotYourBooking)
	assert.Empty(t, repo.updates)
}

func TestApplyTransition_ClaimsUnassignedBooking(t *testing.T) {
	repo := newFakeRepo(testBooking(domain.StatusConfirmed, nil))
	svc, _ := newTestService(repo)

	updated, err := svc.ApplyTransition(context.Background(), TransitionRequest{
		BookingID:       1,
		Target:          domain.StatusEnRoute,
		ActorDetailerID: ptr.Ptr(int64(7)),
	})
	require.NoError(t, err)

	require.NotNil(t, updated.DetailerID)
	assert.Equal(t, int64(7), *updated.DetailerID)
	require.NotNil(t, updated.EnRouteAt)
	assert.Equal(t, testNow, *updated.EnRouteAt)

	require.Len(t, repo.updates, 1)
	require.NotNil(t, repo.updates[0].ClaimDetailerID)
}

func TestApplyTransition_AssignedActorDoesNotReclaim(t *testing.T) {
	repo := newFakeRepo(testBooking(domain.StatusConfirmed, ptr.Ptr(int64(7))))
	svc, _ := newTestService(repo)

	_, err := svc.ApplyTransition(context.Background(), TransitionRequest{
		BookingID:       1,
		Target:          domain.StatusEnRoute,
		ActorDetailerID: ptr.Ptr(int64(7)),
	})
	require.NoError(t, err)

	require.Len(t, repo.updates, 1)
	assert.Nil(t, repo.updates[0].ClaimDetailerID)
}

func TestApplyTransition_NotesTooLong(t *testing.T) {
	repo := newFakeRepo(testBooking(domain.StatusConfirmed, nil))
	svc, _ := newTestService(repo)

	long := strings.Repeat("x", domain.MaxNotesLength+1)
	_, err := svc.ApplyTransition(context.Background(), TransitionRequest{
		BookingID: 1,
		Target:    domain.StatusEnRoute,
		Notes:     &long,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestApplyTransition_NotFound(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	_, err := svc.ApplyTransition(context.Background(), TransitionRequest{
		BookingID: 42,
		Target:    domain.StatusConfirmed,
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestMarkCompleted_FromConfirmed(t *testing.T) {
	// Бригада не отметила промежуточные статусы - завершение всё равно проходит
	repo := newFakeRepo(testBooking(domain.StatusConfirmed, ptr.Ptr(int64(3))))
	svc, dispatcher := newTestService(repo)

	updated, err := svc.MarkCompleted(context.Background(), 1, ptr.Ptr(int64(3)), nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, testNow, *updated.CompletedAt)
	assert.Equal(t, []notify.Kind{notify.KindStatusUpdate}, dispatcher.kinds)
}

func TestMarkCompleted_Idempotent(t *testing.T) {
	booking := testBooking(domain.StatusCompleted, ptr.Ptr(int64(3)))
	booking.CompletedAt = ptr.Ptr(testNow.Add(-time.Hour))
	repo := newFakeRepo(booking)
	svc, dispatcher := newTestService(repo)

	updated, err := svc.MarkCompleted(context.Background(), 1, ptr.Ptr(int64(3)), nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.Empty(t, repo.updates)
	assert.Empty(t, dispatcher.kinds)
}

func TestMarkCompleted_CanceledRejected(t *testing.T) {
	repo := newFakeRepo(testBooking(domain.StatusCanceled, nil))
	svc, _ := newTestService(repo)

	_, err := svc.MarkCompleted(context.Background(), 1, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelByConfirmationCode(t *testing.T) {
	repo := newFakeRepo(testBooking(domain.StatusPending, nil))
	svc, dispatcher := newTestService(repo)

	updated, err := svc.CancelByConfirmationCode(context.Background(), "A1B2C3D4", ptr.Ptr("передумал"))
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCanceled, updated.Status)
	assert.Equal(t, []notify.Kind{notify.KindBookingCanceled}, dispatcher.kinds)
}

func TestCancelByConfirmationCode_AfterWorkStarted(t *testing.T) {
	repo := newFakeRepo(testBooking(domain.StatusStarted, ptr.Ptr(int64(3))))
	svc, _ := newTestService(repo)

	_, err := svc.CancelByConfirmationCode(context.Background(), "A1B2C3D4", nil)
	assert.ErrorIs(t, err, ErrCancelNotAllowed)
}

func TestCancelByConfirmationCode_AlreadyCanceledIsNoop(t *testing.T) {
	repo := newFakeRepo(testBooking(domain.StatusCanceled, nil))
	svc, dispatcher := newTestService(repo)

	updated, err := svc.CancelByConfirmationCode(context.Background(), "A1B2C3D4", nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCanceled, updated.Status)
	assert.Empty(t, repo.updates)
	assert.Empty(t, dispatcher.kinds)
}

func TestCancelByConfirmationCode_UnknownCode(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(repo)

	_, err := svc.CancelByConfirmationCode(context.Background(), "ZZZZZZZZ", nil)
	assert.True(t, errors.Is(err, ErrBookingNotFound))
}

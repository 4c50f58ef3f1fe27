package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	storage "github.com/m04kA/SMC-DetailingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-DetailingService/pkg/ptr"
)

type fakeBookingRepo struct {
	booking *domain.Booking
	// нагрузка по детейлерам на день бронирования
	loads map[int64]int
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if f.booking == nil || f.booking.ID != id {
		return nil, storage.ErrBookingNotFound
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) AssignDetailer(_ context.Context, bookingID, detailerID int64) error {
	if f.booking == nil || f.booking.ID != bookingID {
		return storage.ErrBookingNotFound
	}
	if f.booking.DetailerID != nil {
		return storage.ErrAlreadyAssigned
	}
	f.booking.DetailerID = &detailerID
	if f.booking.Status == domain.StatusPending {
		f.booking.Status = domain.StatusConfirmed
	}
	return nil
}

func (f *fakeBookingRepo) CountActiveByDetailerOnDate(_ context.Context, detailerID int64, _ time.Time) (int, error) {
	return f.loads[detailerID], nil
}

type fakeDetailerRepo struct {
	detailers []*domain.Detailer
}

func (f *fakeDetailerRepo) GetByID(_ context.Context, id int64) (*domain.Detailer, error) {
	for _, d := range f.detailers {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, ErrDetailerNotFound
}

func (f *fakeDetailerRepo) ListActive(_ context.Context) ([]*domain.Detailer, error) {
	out := make([]*domain.Detailer, 0, len(f.detailers))
	for _, d := range f.detailers {
		if d.IsActive {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func unassignedBooking() *domain.Booking {
	return &domain.Booking{
		ID:       1,
		Status:   domain.StatusPending,
		Date:     time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		TimeSlot: domain.SlotMorning,
	}
}

func activeDetailer(id int64) *domain.Detailer {
	return &domain.Detailer{ID: id, Name: "Детейлер", IsActive: true}
}

func TestAssignManually(t *testing.T) {
	bookings := &fakeBookingRepo{booking: unassignedBooking()}
	detailers := &fakeDetailerRepo{detailers: []*domain.Detailer{activeDetailer(3)}}
	svc := NewService(bookings, detailers, fakeTxManager{}, nopLogger{})

	updated, err := svc.AssignManually(context.Background(), 1, 3)
	require.NoError(t, err)

	require.NotNil(t, updated.DetailerID)
	assert.Equal(t, int64(3), *updated.DetailerID)
	assert.Equal(t, domain.StatusConfirmed, updated.Status)
}

func TestAssignManually_AlreadyAssigned(t *testing.T) {
	booking := unassignedBooking()
	booking.DetailerID = ptr.Ptr(int64(2))
	booking.Status = domain.StatusConfirmed

	bookings := &fakeBookingRepo{booking: booking}
	detailers := &fakeDetailerRepo{detailers: []*domain.Detailer{activeDetailer(3)}}
	svc := NewService(bookings, detailers, fakeTxManager{}, nopLogger{})

	_, err := svc.AssignManually(context.Background(), 1, 3)
	assert.ErrorIs(t, err, ErrAlreadyAssigned)
}

func TestAssignManually_CanceledBooking(t *testing.T) {
	booking := unassignedBooking()
	booking.Status = domain.StatusCanceled

	bookings := &fakeBookingRepo{booking: booking}
	detailers := &fakeDetailerRepo{detailers: []*domain.Detailer{activeDetailer(3)}}
	svc := NewService(bookings, detailers, fakeTxManager{}, nopLogger{})

	_, err := svc.AssignManually(context.Background(), 1, 3)
	assert.ErrorIs(t, err, ErrBookingCanceled)
}

func TestAssignManually_InactiveDetailer(t *testing.T) {
	inactive := activeDetailer(3)
	inactive.IsActive = false

	bookings := &fakeBookingRepo{booking: unassignedBooking()}
	detailers := &fakeDetailerRepo{detailers: []*domain.Detailer{inactive}}
	svc := NewService(bookings, detailers, fakeTxManager{}, nopLogger{})

	_, err := svc.AssignManually(context.Background(), 1, 3)
	assert.ErrorIs(t, err, ErrDetailerInactive)
}

func TestAssignManually_DetailerNotFound(t *testing.T) {
	bookings := &fakeBookingRepo{booking: unassignedBooking()}
	detailers := &fakeDetailerRepo{}
	svc := NewService(bookings, detailers, fakeTxManager{}, nopLogger{})

	_, err := svc.AssignManually(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrDetailerNotFound)
}

func TestAssignAutomatically_PicksLeastLoaded(t *testing.T) {
	bookings := &fakeBookingRepo{
		booking: unassignedBooking(),
		loads:   map[int64]int{1: 2, 2: 0, 3: 1},
	}
	detailers := &fakeDetailerRepo{detailers: []*domain.Detailer{
		activeDetailer(1), activeDetailer(2), activeDetailer(3),
	}}
	svc := NewService(bookings, detailers, fakeTxManager{}, nopLogger{})

	updated, err := svc.AssignAutomatically(context.Background(), 1)
	require.NoError(t, err)

	require.NotNil(t, updated.DetailerID)
	assert.Equal(t, int64(2), *updated.DetailerID)
}

func TestAssignAutomatically_TieBreaksByLowestID(t *testing.T) {
	bookings := &fakeBookingRepo{
		booking: unassignedBooking(),
		loads:   map[int64]int{1: 1, 2: 1, 3: 1},
	}
	detailers := &fakeDetailerRepo{detailers: []*domain.Detailer{
		activeDetailer(1), activeDetailer(2), activeDetailer(3),
	}}
	svc := NewService(bookings, detailers, fakeTxManager{}, nopLogger{})

	updated, err := svc.AssignAutomatically(context.Background(), 1)
	require.NoError(t, err)

	require.NotNil(t, updated.DetailerID)
	assert.Equal(t, int64(1), *updated.DetailerID)
}

func TestAssignAutomatically_SkipsInactive(t *testing.T) {
	inactive := activeDetailer(1)
	inactive.IsActive = false

	bookings := &fakeBookingRepo{
		booking: unassignedBooking(),
		loads:   map[int64]int{1: 0, 2: 5},
	}
	detailers := &fakeDetailerRepo{detailers: []*domain.Detailer{inactive, activeDetailer(2)}}
	svc := NewService(bookings, detailers, fakeTxManager{}, nopLogger{})

	updated, err := svc.AssignAutomatically(context.Background(), 1)
	require.NoError(t, err)

	require.NotNil(t, updated.DetailerID)
	assert.Equal(t, int64(2), *updated.DetailerID)
}

func TestAssignAutomatically_NoActiveDetailers(t *testing.T) {
	bookings := &fakeBookingRepo{booking: unassignedBooking()}
	detailers := &fakeDetailerRepo{}
	svc := NewService(bookings, detailers, fakeTxManager{}, nopLogger{})

	_, err := svc.AssignAutomatically(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoActiveDetailers)
}

func TestAssignAutomatically_BookingNotFound(t *testing.T) {
	bookings := &fakeBookingRepo{}
	detailers := &fakeDetailerRepo{detailers: []*domain.Detailer{activeDetailer(1)}}
	svc := NewService(bookings, detailers, fakeTxManager{}, nopLogger{})

	_, err := svc.AssignAutomatically(context.Background(), 42)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

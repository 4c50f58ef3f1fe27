package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DetailingService/internal/domain"
	catalogstorage "github.com/m04kA/SMC-DetailingService/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-DetailingService/internal/notify"
	"github.com/m04kA/SMC-DetailingService/internal/service/availability"
)

type fakeBookingRepo struct {
	existing map[string]bool
	created  []*domain.Booking
	nextID   int64
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.nextID++
	booking.ID = f.nextID
	f.created = append(f.created, booking)
	return booking, nil
}

func (f *fakeBookingRepo) ExistsByConfirmationCode(_ context.Context, code string) (bool, error) {
	return f.existing[code], nil
}

type fakeCatalog struct {
	services map[int64]*domain.CatalogService
	addOns   map[int64]*domain.AddOn
}

func (f *fakeCatalog) GetServicesByIDs(_ context.Context, ids []int64) ([]*domain.CatalogService, error) {
	out := make([]*domain.CatalogService, 0, len(ids))
	for _, id := range ids {
		s, ok := f.services[id]
		if !ok {
			return nil, catalogstorage.ErrServiceNotFound
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeCatalog) GetAddOnsByIDs(_ context.Context, ids []int64) ([]*domain.AddOn, error) {
	out := make([]*domain.AddOn, 0, len(ids))
	for _, id := range ids {
		a, ok := f.addOns[id]
		if !ok {
			return nil, catalogstorage.ErrAddOnNotFound
		}
		out = append(out, a)
	}
	return out, nil
}

type fakeAvailability struct {
	result *availability.Result
}

func (f *fakeAvailability) Evaluate(_ context.Context, _ time.Time, slotID string) (*availability.Result, error) {
	if f.result != nil {
		return f.result, nil
	}
	slot, _ := domain.SlotByID(slotID)
	return &availability.Result{Available: true, Slot: &slot}, nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeDispatcher struct {
	kinds    []notify.Kind
	payloads []notify.Payload
}

func (f *fakeDispatcher) Dispatch(_ notify.Recipient, kind notify.Kind, payload notify.Payload) {
	f.kinds = append(f.kinds, kind)
	f.payloads = append(f.payloads, payload)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{
		services: map[int64]*domain.CatalogService{
			1: {ID: 1, Name: "Полная мойка", DurationHours: 3, PriceSedan: 100, PriceSUV: 130, PriceTruck: 150, PriceCoupe: 110},
			2: {ID: 2, Name: "Полировка", DurationHours: 2, PriceSedan: 200, PriceSUV: 250, PriceTruck: 280, PriceCoupe: 210},
		},
		addOns: map[int64]*domain.AddOn{
			10: {ID: 10, Name: "Озонирование", PriceSedan: 40, PriceSUV: 50, PriceTruck: 60, PriceCoupe: 45},
		},
	}
}

func validRequest() *Request {
	return &Request{
		CustomerName:  "Иван Петров",
		CustomerEmail: "Ivan@Example.com",
		CustomerPhone: "+7 999 000 11 22",
		Address:       "ул. Ленина, 1",
		City:          "Москва",
		VehicleType:   "SUV",
		VehicleMake:   "Toyota",
		VehicleModel:  "RAV4",
		VehicleYear:   2022,
		ServiceIDs:    []int64{1},
		Date:          time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
		TimeSlot:      domain.SlotMorning,
	}
}

func newTestUseCase(repo *fakeBookingRepo, avail *fakeAvailability, dispatcher *fakeDispatcher) *UseCase {
	return NewUseCase(repo, testCatalog(), avail, fakeTxManager{}, dispatcher, nopLogger{})
}

func TestExecute_CreatesPendingBooking(t *testing.T) {
	repo := &fakeBookingRepo{}
	dispatcher := &fakeDispatcher{}
	uc := newTestUseCase(repo, &fakeAvailability{}, dispatcher)

	booking, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, booking.Status)
	assert.Equal(t, "ivan@example.com", booking.CustomerEmail)
	assert.Len(t, booking.ConfirmationCode, domain.ConfirmationCodeLength)
	require.Len(t, repo.created, 1)
	assert.Equal(t, []notify.Kind{notify.KindBookingReceived}, dispatcher.kinds)
}

func TestExecute_ConfirmedInitialStatus(t *testing.T) {
	repo := &fakeBookingRepo{}
	dispatcher := &fakeDispatcher{}
	uc := newTestUseCase(repo, &fakeAvailability{}, dispatcher)

	req := validRequest()
	req.InitialStatus = domain.StatusConfirmed

	booking, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, booking.Status)
	assert.Equal(t, []notify.Kind{notify.KindBookingConfirmed}, dispatcher.kinds)
}

func TestExecute_PriceAndDurationPerVehicleType(t *testing.T) {
	repo := &fakeBookingRepo{}
	uc := newTestUseCase(repo, &fakeAvailability{}, &fakeDispatcher{})

	req := validRequest()
	req.ServiceIDs = []int64{1, 2}
	req.AddOnIDs = []int64{10}

	booking, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// SUV: 130 + 250 + 50
	assert.Equal(t, 430.0, booking.TotalPrice)
	// 3 + 2 часа услуг + 0.5 часа на дополнение
	assert.Equal(t, 5.5, booking.EstimatedDurationHours)
}

func TestExecute_SlotUnavailable(t *testing.T) {
	repo := &fakeBookingRepo{}
	dispatcher := &fakeDispatcher{}
	uc := newTestUseCase(repo, &fakeAvailability{result: &availability.Result{
		Available:     false,
		Reason:        availability.ReasonDayTaken,
		ConflictCount: 1,
	}}, dispatcher)

	_, err := uc.Execute(context.Background(), validRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, availability.ReasonDayTaken, unavailable.Reason)
	assert.Equal(t, 1, unavailable.ConflictCount)

	assert.Empty(t, repo.created)
	assert.Empty(t, dispatcher.kinds)
}

func TestExecute_CodeCollisionRetries(t *testing.T) {
	repo := &fakeBookingRepo{existing: map[string]bool{"AAAA1111": true}}
	codes := []string{"AAAA1111", "AAAA1111", "BBBB2222"}
	calls := 0
	uc := NewUseCaseWithCodeGenerator(repo, testCatalog(), &fakeAvailability{}, fakeTxManager{}, &fakeDispatcher{}, nopLogger{},
		func() (string, error) {
			code := codes[calls]
			calls++
			return code, nil
		})

	booking, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, "BBBB2222", booking.ConfirmationCode)
	assert.Equal(t, 3, calls)
}

func TestExecute_CodeGenerationExhausted(t *testing.T) {
	repo := &fakeBookingRepo{existing: map[string]bool{"AAAA1111": true}}
	uc := NewUseCaseWithCodeGenerator(repo, testCatalog(), &fakeAvailability{}, fakeTxManager{}, &fakeDispatcher{}, nopLogger{},
		func() (string, error) { return "AAAA1111", nil })

	_, err := uc.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrCodeGeneration)
}

func TestExecute_UnknownService(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeAvailability{}, &fakeDispatcher{})

	req := validRequest()
	req.ServiceIDs = []int64{99}

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_UnknownAddOn(t *testing.T) {
	uc := newTestUseCase(&fakeBookingRepo{}, &fakeAvailability{}, &fakeDispatcher{})

	req := validRequest()
	req.AddOnIDs = []int64{99}

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAddOnNotFound)
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"empty name", func(r *Request) { r.CustomerName = "  " }},
		{"bad email", func(r *Request) { r.CustomerEmail = "not-an-email" }},
		{"short phone", func(r *Request) { r.CustomerPhone = "12345" }},
		{"empty address", func(r *Request) { r.Address = "" }},
		{"empty city", func(r *Request) { r.City = "" }},
		{"unknown vehicle type", func(r *Request) { r.VehicleType = "BOAT" }},
		{"vehicle type wrong case", func(r *Request) { r.VehicleType = "SEDAN" }},
		{"empty make", func(r *Request) { r.VehicleMake = "" }},
		{"empty model", func(r *Request) { r.VehicleModel = "" }},
		{"year too old", func(r *Request) { r.VehicleYear = 1900 }},
		{"year in far future", func(r *Request) { r.VehicleYear = time.Now().Year() + 2 }},
		{"no services", func(r *Request) { r.ServiceIDs = nil }},
		{"negative service id", func(r *Request) { r.ServiceIDs = []int64{-1} }},
		{"zero addon id", func(r *Request) { r.AddOnIDs = []int64{0} }},
		{"zero date", func(r *Request) { r.Date = time.Time{} }},
		{"unknown slot", func(r *Request) { r.TimeSlot = "evening" }},
		{"forbidden initial status", func(r *Request) { r.InitialStatus = domain.StatusCompleted }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			assert.ErrorIs(t, ValidateRequest(req), ErrInvalidInput)
		})
	}

	assert.NoError(t, ValidateRequest(validRequest()))
}

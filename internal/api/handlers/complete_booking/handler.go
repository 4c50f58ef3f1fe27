package complete_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/api/middleware"
	bookingsService "github.com/m04kA/SMC-DetailingService/internal/service/bookings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidID          = "некорректный идентификатор бронирования"
	msgBookingNotFound    = "бронирование не найдено"
	msgNotYourBooking     = "бронирование назначено на другого детейлера"
	msgBookingCanceled    = "отменённое бронирование нельзя завершить"
)

// CompleteBookingRequest HTTP request model
type CompleteBookingRequest struct {
	Notes *string `json:"notes,omitempty"`
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{id}/complete
// Завершение допустимо из любого нетерминального статуса: бригада в поле
// не всегда отмечает промежуточные шаги. Повторное завершение - no-op
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	rawID := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req CompleteBookingRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /bookings/{id}/complete - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	var actor *int64
	if detailerID, ok := middleware.DetailerID(r.Context()); ok {
		actor = &detailerID
	}

	booking, err := h.service.MarkCompleted(r.Context(), id, actor, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookingsService.ErrNotYourBooking):
			handlers.RespondForbidden(w, msgNotYourBooking)

		case errors.Is(err, bookingsService.ErrInvalidTransition):
			handlers.RespondConflict(w, msgBookingCanceled)

		default:
			h.logger.Error("POST /bookings/{id}/complete - Failed to complete booking %d: %v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/complete - Booking completed: booking_id=%d", id)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewBookingView(booking))
}

package cancel_booking

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	bookingsService "github.com/m04kA/SMC-DetailingService/internal/service/bookings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBookingNotFound    = "бронирование не найдено"
	msgCancelNotAllowed   = "бронирование нельзя отменить: работы уже начались"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason *string `json:"reason,omitempty"`
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

// Handle POST /api/v1/bookings/code/{code}/cancel
// Публичная точка клиентской отмены по коду подтверждения
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(mux.Vars(r)["code"]))

	var req CancelBookingRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /bookings/code/{code}/cancel - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}

	booking, err := h.service.CancelByConfirmationCode(r.Context(), code, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookingsService.ErrCancelNotAllowed):
			h.logger.Warn("POST /bookings/code/{code}/cancel - Cancel not allowed: code=%s", code)
			handlers.RespondConflict(w, msgCancelNotAllowed)

		default:
			h.logger.Error("POST /bookings/code/{code}/cancel - Failed to cancel: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/code/{code}/cancel - Canceled: booking_id=%d", booking.ID)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewBookingView(booking))
}

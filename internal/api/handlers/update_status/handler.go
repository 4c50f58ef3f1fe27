package update_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/api/middleware"
	"github.com/m04kA/SMC-DetailingService/internal/domain"
	bookingsService "github.com/m04kA/SMC-DetailingService/internal/service/bookings"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidID          = "некорректный идентификатор бронирования"
	msgInvalidStatus      = "некорректный статус бронирования"
	msgInvalidNotes       = "слишком длинные заметки"
	msgBookingNotFound    = "бронирование не найдено"
	msgNotYourBooking     = "бронирование назначено на другого детейлера"
	msgAlreadyAssigned    = "бронирование уже занято другим детейлером"
	msgInvalidTransition  = "недопустимый переход статуса"
)

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

// Handle POST /api/v1/bookings/{id}/status
// Переход неназначенного бронирования в полевой статус закрепляет его
// за детейлером из токена
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	rawID := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	target, ok := domain.ParseBookingStatus(req.Status)
	if !ok {
		h.logger.Warn("POST /bookings/{id}/status - Unknown status %q: booking_id=%d", req.Status, id)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	transition := bookingsService.TransitionRequest{
		BookingID: id,
		Target:    target,
		Notes:     req.Notes,
	}
	if detailerID, ok := middleware.DetailerID(r.Context()); ok {
		transition.ActorDetailerID = &detailerID
	}

	booking, err := h.service.ApplyTransition(r.Context(), transition)
	if err != nil {
		var invalid *bookingsService.InvalidTransitionError
		switch {
		case errors.As(err, &invalid):
			h.logger.Warn("POST /bookings/{id}/status - Invalid transition: booking_id=%d, %s -> %s",
				id, invalid.From, invalid.To)
			allowed := make([]string, len(invalid.Allowed))
			for i, s := range invalid.Allowed {
				allowed[i] = string(s)
			}
			handlers.RespondJSON(w, http.StatusConflict, InvalidTransitionResponse{
				Error:           msgInvalidTransition,
				CurrentStatus:   string(invalid.From),
				RequestedStatus: string(invalid.To),
				AllowedStatuses: allowed,
			})

		case errors.Is(err, bookingsService.ErrUnknownStatus):
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, bookingsService.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidNotes)

		case errors.Is(err, bookingsService.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookingsService.ErrNotYourBooking):
			h.logger.Warn("POST /bookings/{id}/status - Foreign booking: booking_id=%d", id)
			handlers.RespondForbidden(w, msgNotYourBooking)

		case errors.Is(err, bookingsService.ErrAlreadyAssigned):
			handlers.RespondConflict(w, msgAlreadyAssigned)

		default:
			h.logger.Error("POST /bookings/{id}/status - Failed to update status: booking_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/status - Status updated: booking_id=%d, status=%s", id, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewBookingView(booking))
}

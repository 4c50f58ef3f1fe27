package auto_assign_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	assignmentService "github.com/m04kA/SMC-DetailingService/internal/service/assignment"
)

const (
	msgInvalidID         = "некорректный идентификатор бронирования"
	msgBookingNotFound   = "бронирование не найдено"
	msgAlreadyAssigned   = "бронирование уже назначено"
	msgBookingCanceled   = "отменённое бронирование нельзя назначить"
	msgNoActiveDetailers = "нет активных детейлеров для назначения"
)

type Handler struct {
	service AssignmentService
	logger  Logger
}

func NewHandler(service AssignmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{id}/auto-assign
// Выбирает детейлера с наименьшей нагрузкой на день бронирования,
// при равенстве - с меньшим ID
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	rawID := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	booking, err := h.service.AssignAutomatically(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, assignmentService.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, assignmentService.ErrAlreadyAssigned):
			h.logger.Warn("POST /bookings/{id}/auto-assign - Already assigned: booking_id=%d", id)
			handlers.RespondConflict(w, msgAlreadyAssigned)

		case errors.Is(err, assignmentService.ErrBookingCanceled):
			handlers.RespondConflict(w, msgBookingCanceled)

		case errors.Is(err, assignmentService.ErrNoActiveDetailers):
			h.logger.Warn("POST /bookings/{id}/auto-assign - No active detailers: booking_id=%d", id)
			handlers.RespondConflict(w, msgNoActiveDetailers)

		default:
			h.logger.Error("POST /bookings/{id}/auto-assign - Failed to auto-assign: booking_id=%d, error=%v", id, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/auto-assign - Assigned: booking_id=%d, detailer_id=%v", id, *booking.DetailerID)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewBookingView(booking))
}

package assign_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	assignmentService "github.com/m04kA/SMC-DetailingService/internal/service/assignment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidID          = "некорректный идентификатор бронирования"
	msgInvalidDetailerID  = "некорректный идентификатор детейлера"
	msgBookingNotFound    = "бронирование не найдено"
	msgDetailerNotFound   = "детейлер не найден"
	msgDetailerInactive   = "детейлер деактивирован"
	msgAlreadyAssigned    = "бронирование уже назначено"
	msgBookingCanceled    = "отменённое бронирование нельзя назначить"
)

// AssignBookingRequest HTTP request model
type AssignBookingRequest struct {
	DetailerID int64 `json:"detailerId"`
}

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

// Handle POST /api/v1/bookings/{id}/assign
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	rawID := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		handlers.RespondBadRequest(w, msgInvalidID)
		return
	}

	var req AssignBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/assign - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.DetailerID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidDetailerID)
		return
	}

	booking, err := h.service.AssignManually(r.Context(), id, req.DetailerID)
	if err != nil {
		switch {
		case errors.Is(err, assignmentService.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, assignmentService.ErrDetailerNotFound):
			handlers.RespondNotFound(w, msgDetailerNotFound)

		case errors.Is(err, assignmentService.ErrDetailerInactive):
			handlers.RespondConflict(w, msgDetailerInactive)

		case errors.Is(err, assignmentService.ErrAlreadyAssigned):
			h.logger.Warn("POST /bookings/{id}/assign - Already assigned: booking_id=%d", id)
			handlers.RespondConflict(w, msgAlreadyAssigned)

		case errors.Is(err, assignmentService.ErrBookingCanceled):
			handlers.RespondConflict(w, msgBookingCanceled)

		default:
			h.logger.Error("POST /bookings/{id}/assign - Failed to assign: booking_id=%d, detailer_id=%d, error=%v",
				id, req.DetailerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/assign - Assigned: booking_id=%d, detailer_id=%d", id, req.DetailerID)
	handlers.RespondJSON(w, http.StatusOK, handlers.NewBookingView(booking))
}

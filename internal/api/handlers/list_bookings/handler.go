package list_bookings

import (
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

const (
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidStatus   = "некорректный статус бронирования"
	msgInvalidDetailer = "некорректный идентификатор детейлера"
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

// Handle GET /api/v1/bookings?startDate=&endDate=&status=&detailerId=&includeCanceled=
// Диспетчерский список с гибкой фильтрацией
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var filter domain.BookingsFilter
	query := r.URL.Query()

	if raw := query.Get("startDate"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		filter.StartDate = &parsed
	}

	if raw := query.Get("endDate"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		filter.EndDate = &parsed
	}

	if raw := query.Get("status"); raw != "" {
		status, ok := domain.ParseBookingStatus(raw)
		if !ok {
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
		filter.Status = &status
	}

	if raw := query.Get("detailerId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			handlers.RespondBadRequest(w, msgInvalidDetailer)
			return
		}
		filter.DetailerID = &id
	}

	filter.IncludeCanceled = query.Get("includeCanceled") == "true"

	list, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("GET /bookings - Failed to list bookings: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"bookings": handlers.NewBookingViews(list),
		"total":    len(list),
	})
}

package get_detailer_bookings

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/api/middleware"
	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

const (
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgUnauthorized = "требуется аутентификация"
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

// Handle GET /api/v1/detailers/me/bookings?date=YYYY-MM-DD
// Наряд детейлера на день. Без параметра date - на сегодня
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	detailerID, ok := middleware.DetailerID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		date = parsed
	}

	list, err := h.service.DaySheet(r.Context(), detailerID, date)
	if err != nil {
		h.logger.Error("GET /detailers/me/bookings - Failed to get day sheet: detailer_id=%d, error=%v", detailerID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"date":     domain.NormalizeDate(date).Format(domain.DateFormat),
		"bookings": handlers.NewBookingViews(list),
		"total":    len(list),
	})
}

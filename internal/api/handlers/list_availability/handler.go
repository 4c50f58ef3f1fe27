package list_availability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

const (
	msgInvalidFrom = "некорректный формат даты начала, ожидается YYYY-MM-DD"
	msgInvalidDays = "некорректное число дней"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/availability?from=YYYY-MM-DD&days=30
// Параметры опциональны: по умолчанию - 30 дней от сегодняшнего
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	from := time.Now()
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			h.logger.Warn("GET /availability - Invalid from date %q: %v", raw, err)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
		from = parsed
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			h.logger.Warn("GET /availability - Invalid days %q", raw)
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
		days = parsed
	}

	result, err := h.service.EvaluateRange(r.Context(), from, days)
	if err != nil {
		h.logger.Error("GET /availability - Failed to evaluate range: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDays(result))
}

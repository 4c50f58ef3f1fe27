package check_availability

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	"github.com/m04kA/SMC-DetailingService/internal/domain"
)

const (
	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingSlot = "не указан временной слот"
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

// Handle GET /api/v1/availability/check?date=YYYY-MM-DD&slot=morning
// Проверка рекомендательная: авторитетная выполняется в транзакции создания
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	rawDate := r.URL.Query().Get("date")
	date, err := time.Parse(domain.DateFormat, rawDate)
	if err != nil {
		h.logger.Warn("GET /availability/check - Invalid date %q: %v", rawDate, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	slotID := r.URL.Query().Get("slot")
	if slotID == "" {
		handlers.RespondBadRequest(w, msgMissingSlot)
		return
	}

	result, err := h.service.Evaluate(r.Context(), date, slotID)
	if err != nil {
		h.logger.Error("GET /availability/check - Failed to evaluate: date=%s, slot=%s, error=%v", rawDate, slotID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromResult(rawDate, slotID, result))
}

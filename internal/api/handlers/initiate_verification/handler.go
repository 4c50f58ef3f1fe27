package initiate_verification

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-DetailingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidInput       = "некорректные данные бронирования"
)

type Handler struct {
	useCase VerificationUseCase
	logger  Logger
}

func NewHandler(useCase VerificationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/verifications
// Черновик валидируется целиком до отправки SMS-кода
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req InitiateVerificationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /verifications - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	draft, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /verifications - Failed to parse date %q: %v", req.Date, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Initiate(r.Context(), draft)
	if err != nil {
		if errors.Is(err, createBooking.ErrInvalidInput) {
			h.logger.Warn("POST /verifications - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("POST /verifications - Failed to initiate verification: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /verifications - Verification initiated: session_id=%s", result.SessionID)
	handlers.RespondJSON(w, http.StatusCreated, FromResult(result))
}

package confirm_verification

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-DetailingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-DetailingService/internal/usecase/verification"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSessionNotFound    = "сессия верификации не найдена или истекла"
	msgSessionExpired     = "срок сессии верификации истёк"
	msgTooManyAttempts    = "превышено число попыток ввода кода"
)

// ConfirmVerificationRequest HTTP request model
type ConfirmVerificationRequest struct {
	Code string `json:"code"`
}

// InvalidCodeResponse ответ при неверном коде с числом оставшихся попыток
type InvalidCodeResponse struct {
	Error             string `json:"error"`
	AttemptsRemaining int    `json:"attemptsRemaining"`
}

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

// Handle POST /api/v1/verifications/{id}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req ConfirmVerificationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /verifications/{id}/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.useCase.Confirm(r.Context(), sessionID, req.Code)
	if err != nil {
		var invalidCode *verification.InvalidCodeError
		var unavailable *createBooking.UnavailableError
		switch {
		case errors.As(err, &invalidCode):
			h.logger.Warn("POST /verifications/{id}/confirm - Invalid code: session_id=%s, remaining=%d",
				sessionID, invalidCode.Remaining)
			handlers.RespondJSON(w, http.StatusBadRequest, InvalidCodeResponse{
				Error:             "неверный код подтверждения",
				AttemptsRemaining: invalidCode.Remaining,
			})

		case errors.Is(err, verification.ErrSessionNotFound):
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, verification.ErrSessionExpired):
			handlers.RespondError(w, http.StatusGone, msgSessionExpired)

		case errors.Is(err, verification.ErrTooManyAttempts):
			handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyAttempts)

		case errors.As(err, &unavailable):
			// Слот заняли, пока клиент вводил код
			h.logger.Warn("POST /verifications/{id}/confirm - Slot unavailable: session_id=%s, reason=%s",
				sessionID, unavailable.Reason)
			handlers.RespondConflict(w, unavailable.Reason)

		default:
			h.logger.Error("POST /verifications/{id}/confirm - Failed to confirm: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /verifications/{id}/confirm - Booking created: booking_id=%d, code=%s",
		booking.ID, booking.ConfirmationCode)
	handlers.RespondJSON(w, http.StatusCreated, handlers.NewBookingView(booking))
}

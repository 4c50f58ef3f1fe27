package login

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-DetailingService/internal/api/handlers"
	authService "github.com/m04kA/SMC-DetailingService/internal/service/auth"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidCredentials = "неверный email или пароль"
	msgDetailerInactive   = "учетная запись деактивирована"
)

// LoginRequest HTTP request model
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse HTTP response model
type LoginResponse struct {
	Token      string `json:"token"`
	ExpiresAt  string `json:"expiresAt"`
	DetailerID int64  `json:"detailerId"`
	Name       string `json:"name"`
}

type Handler struct {
	service AuthService
	logger  Logger
}

func NewHandler(service AuthService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/auth/login
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /auth/login - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authService.ErrInvalidCredentials):
			h.logger.Warn("POST /auth/login - Invalid credentials")
			handlers.RespondUnauthorized(w, msgInvalidCredentials)

		case errors.Is(err, authService.ErrDetailerInactive):
			handlers.RespondForbidden(w, msgDetailerInactive)

		default:
			h.logger.Error("POST /auth/login - Failed to login: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, LoginResponse{
		Token:      result.Token,
		ExpiresAt:  result.ExpiresAt.Format(time.RFC3339),
		DetailerID: result.Detailer.ID,
		Name:       result.Detailer.Name,
	})
}

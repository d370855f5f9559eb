package adaptor

import (
	"net/http"

	"vehicle-booking/internal/dto/request"
	"vehicle-booking/internal/usecase"
	"vehicle-booking/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Signages handles GET /api/auth/signages
func (h *AuthHandler) Signages(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", h.service.Signages())
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), &req, sessionMeta(r))
	if err != nil {
		handleServiceError(w, r, h.log, err, "register")
		return
	}

	utils.ResponseCreated(w, "Registration successful", resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), &req, sessionMeta(r))
	if err != nil {
		handleServiceError(w, r, h.log, err, "login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", resp)
}

// LoginWithCode handles POST /api/auth/code
func (h *AuthHandler) LoginWithCode(w http.ResponseWriter, r *http.Request) {
	var req request.CodeLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.LoginWithCode(r.Context(), &req, sessionMeta(r))
	if err != nil {
		handleServiceError(w, r, h.log, err, "code login")
		return
	}

	utils.ResponseSuccess(w, "Login successful", resp)
}

// Logout handles POST /api/auth/logout (protected)
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		handleServiceError(w, r, h.log, err, "logout")
		return
	}

	utils.ResponseSuccess(w, "Logout successful", nil)
}

// Me handles GET /api/auth/me (protected)
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFrom(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Me(r.Context(), principal)
	if err != nil {
		handleServiceError(w, r, h.log, err, "me")
		return
	}

	utils.ResponseSuccess(w, "success", resp)
}

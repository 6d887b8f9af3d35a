package http

import (
	"encoding/json"
	"net/http"

	"github.com/attendly-hq/attendance-backend-go/internal/domain/auth"
	"github.com/attendly-hq/attendance-backend-go/internal/handler/http/response"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	RequestMagicLink(w http.ResponseWriter, r *http.Request)
	VerifyMagicLink(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &authHandlerImpl{authService: authService}
}

// Register implements AuthHandler.
func (h *authHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokens, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Account created", tokens)
}

// Login implements AuthHandler.
func (h *authHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokens, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, tokens)
}

// RequestMagicLink implements AuthHandler.
func (h *authHandlerImpl) RequestMagicLink(w http.ResponseWriter, r *http.Request) {
	var req auth.MagicLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.authService.RequestMagicLink(r.Context(), &req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "If the email exists, a sign-in link has been sent", nil)
}

// VerifyMagicLink implements AuthHandler.
func (h *authHandlerImpl) VerifyMagicLink(w http.ResponseWriter, r *http.Request) {
	req := auth.MagicLinkVerifyRequest{Token: r.URL.Query().Get("token")}
	if req.Token == "" {
		var body auth.MagicLinkVerifyRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			req.Token = body.Token
		}
	}

	tokens, err := h.authService.VerifyMagicLink(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, tokens)
}

// RefreshToken implements AuthHandler.
func (h *authHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	tokens, err := h.authService.Refresh(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, tokens)
}

// Logout implements AuthHandler.
func (h *authHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Logged out", nil)
}

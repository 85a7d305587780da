package auth

import (
	"context"
	"encoding/json"
	"net/http"

	domainerrors "authorsite/internal/errors"
	"authorsite/internal/httpx"
	"authorsite/internal/validation"
)

type loginService interface {
	Login(ctx context.Context, email, password string) (string, int, error)
}

type HTTPHandler struct {
	svc       loginService
	validator *validation.Validator
}

func NewHTTPHandler(svc loginService, v *validation.Validator) *HTTPHandler {
	return &HTTPHandler{svc: svc, validator: v}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int    `json:"expiresIn"`
}

// Login handles POST /v1/admin/login
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, r, domainerrors.Validation("invalid JSON body"))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	token, expiresIn, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	httpx.JSONSuccess(w, r, LoginResponse{AccessToken: token, TokenType: "Bearer", ExpiresIn: expiresIn}, nil)
}

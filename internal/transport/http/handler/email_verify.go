package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-auth-api/internal/application/auth"
	"github.com/go-auth-api/internal/domain"
	"github.com/go-auth-api/internal/pkg/validate"
	"github.com/go-auth-api/internal/transport/http/middleware"
)

// EmailVerifyHandler handles the account email verification flow. Both
// endpoints require an authenticated session; the code is bound to the
// token's user.
type EmailVerifyHandler struct {
	svc auth.Service
}

func NewEmailVerifyHandler(svc auth.Service) *EmailVerifyHandler {
	return &EmailVerifyHandler{svc: svc}
}

func (h *EmailVerifyHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	if err := h.svc.RequestEmailVerification(r.Context(), claims.UserID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "Verification OTP sent"})
}

func (h *EmailVerifyHandler) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	var req struct {
		OTP string `json:"otp" validate:"required,len=6,numeric"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, fmt.Errorf("%s: %w", err, domain.ErrMissingFields))
		return
	}
	if err := h.svc.VerifyEmail(r.Context(), claims.UserID, req.OTP); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "Account verified"})
}

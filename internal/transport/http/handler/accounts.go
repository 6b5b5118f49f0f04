package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-auth-api/internal/application/session"
	"github.com/go-auth-api/internal/application/user"
	"github.com/go-auth-api/internal/domain"
	"github.com/go-auth-api/internal/pkg/validate"
	"github.com/go-auth-api/internal/transport/http/middleware"
)

// AccountHandler handles registration, login, logout and session probes.
type AccountHandler struct {
	users    user.Service
	sessions session.Service
	cookies  *CookieWriter
}

func NewAccountHandler(users user.Service, sessions session.Service, cookies *CookieWriter) *AccountHandler {
	return &AccountHandler{users: users, sessions: sessions, cookies: cookies}
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, fmt.Errorf("%s: %w", err, domain.ErrMissingFields))
		return
	}
	u, token, err := h.users.Register(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	h.cookies.Set(w, token)
	writeJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Message: "User registered successfully",
		User:    toSafeUser(u),
	})
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "bad_request", "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		httpError(w, fmt.Errorf("%s: %w", err, domain.ErrMissingFields))
		return
	}
	u, token, err := h.sessions.Login(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	h.cookies.Set(w, token)
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "Logged in", User: toSafeUser(u)})
}

func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w)
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "Logged out"})
}

// IsAuth reports whether the request carries a valid session token. The auth
// middleware already rejected the request otherwise.
func (h *AccountHandler) IsAuth(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.ClaimsFromContext(r.Context()); !ok {
		writeFailure(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true})
}

// Data returns the authenticated user's profile.
func (h *AccountHandler) Data(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
		return
	}
	u, err := h.users.Get(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Envelope{Success: true, User: toSafeUser(u)})
}

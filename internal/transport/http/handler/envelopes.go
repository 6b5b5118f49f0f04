package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-auth-api/internal/domain"
)

// Envelope is the uniform response shape: {success, message?, code?, user?}.
// Code carries a stable machine-readable error code next to the
// human-readable message.
type Envelope struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	Code    string    `json:"code,omitempty"`
	User    *SafeUser `json:"user,omitempty"`
}

// SafeUser is the client-facing user shape. The password hash never appears
// in a response.
type SafeUser struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

func toSafeUser(u *domain.User) *SafeUser {
	if u == nil {
		return nil
	}
	return &SafeUser{ID: u.UserID, Name: u.Name, Email: u.Email, EmailVerified: u.EmailVerified}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFailure(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, Envelope{Success: false, Code: code, Message: msg})
}

// httpError converts a domain error into the failure envelope. Every
// handler-level failure goes through here — nothing propagates raw.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingFields):
		writeFailure(w, http.StatusUnprocessableEntity, "missing_fields", err.Error())
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrDuplicateKey):
		writeFailure(w, http.StatusConflict, "already_exists", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeFailure(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrNoActiveRequest):
		writeFailure(w, http.StatusNotFound, "no_active_request", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeFailure(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, domain.ErrInvalidCode):
		writeFailure(w, http.StatusUnauthorized, "invalid_code", err.Error())
	case errors.Is(err, domain.ErrExpired):
		writeFailure(w, http.StatusUnauthorized, "expired", err.Error())
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		writeFailure(w, http.StatusServiceUnavailable, "upstream_unavailable", err.Error())
	default:
		writeFailure(w, http.StatusInternalServerError, "internal", "something went wrong")
	}
}

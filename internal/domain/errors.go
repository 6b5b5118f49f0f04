package domain

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes and stable
// machine-readable codes without leaking infrastructure details.
var (
	ErrMissingFields       = errors.New("missing fields")
	ErrAlreadyExists       = errors.New("already exists")
	ErrNotFound            = errors.New("not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrExpired             = errors.New("expired")
	ErrInvalidCode         = errors.New("invalid code")
	ErrNoActiveRequest     = errors.New("no active request")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// Upstream converts a context deadline hit against the store or a delivery
// channel into ErrUpstreamUnavailable. Other errors pass through unchanged.
func Upstream(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s timed out: %w", op, ErrUpstreamUnavailable)
	}
	return err
}

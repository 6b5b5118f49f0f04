package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-auth-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Service issues stateless session tokens. There is no server-side session
// record: validity is determined purely by the token signature and expiry,
// and logout is a cookie discard handled at the transport layer.
type Service interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type tokenSigner interface {
	Sign(userID string) (string, error)
}

type service struct {
	repo         userStore
	signer       tokenSigner
	storeTimeout time.Duration
}

func NewService(repo userStore, signer tokenSigner, storeTimeout time.Duration) Service {
	return &service{repo: repo, signer: signer, storeTimeout: storeTimeout}
}

// Login deliberately returns the same error for an unknown email and a wrong
// password, so responses don't reveal which emails are registered.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", fmt.Errorf("invalid email or password: %w", domain.ErrInvalidCredentials)
		}
		return nil, "", domain.Upstream("user lookup", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", fmt.Errorf("invalid email or password: %w", domain.ErrInvalidCredentials)
	}

	token, err := s.signer.Sign(u.UserID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

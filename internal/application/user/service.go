package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-auth-api/internal/domain"
	"github.com/go-auth-api/internal/pkg/id"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	// Register creates the account and issues a session token for it, so a
	// freshly registered client is logged in without a second round trip.
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, string, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	Insert(ctx context.Context, u *domain.User) error
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

func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, "", fmt.Errorf("user already exists: %w", domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", domain.Upstream("user lookup", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, u); err != nil {
		// Lost the race against a concurrent registration for the same email.
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, "", fmt.Errorf("user already exists: %w", domain.ErrAlreadyExists)
		}
		return nil, "", domain.Upstream("user insert", err)
	}

	token, err := s.signer.Sign(u.UserID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, domain.Upstream("user lookup", err)
	}
	return u, nil
}

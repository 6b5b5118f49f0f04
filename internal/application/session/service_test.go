package session

import (
	"context"
	"testing"
	"time"

	"github.com/go-auth-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_HappyPath(t *testing.T) {
	repo := &mockUserStore{}
	signer := &mockSigner{}

	repo.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{
		UserID: "u1", Email: "a@x.com", PasswordHash: hashOf(t, "secret123"),
	}, nil)
	signer.On("Sign", "u1").Return("tok", nil)

	svc := NewService(repo, signer, 5*time.Second)
	u, token, err := svc.Login(context.Background(), domain.LoginRequest{Email: "a@x.com", Password: "secret123"})

	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "u1", u.UserID)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{
		UserID: "u1", Email: "a@x.com", PasswordHash: hashOf(t, "secret123"),
	}, nil)

	svc := NewService(repo, &mockSigner{}, 5*time.Second)
	_, _, err := svc.Login(context.Background(), domain.LoginRequest{Email: "a@x.com", Password: "wrong"})

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail_SameErrorAsWrongPassword(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{
		UserID: "u1", Email: "a@x.com", PasswordHash: hashOf(t, "secret123"),
	}, nil)
	repo.On("GetByEmail", mock.Anything, "nobody@x.com").Return(nil, domain.ErrNotFound)

	svc := NewService(repo, &mockSigner{}, 5*time.Second)

	_, _, errWrongPw := svc.Login(context.Background(), domain.LoginRequest{Email: "a@x.com", Password: "wrong"})
	_, _, errNoUser := svc.Login(context.Background(), domain.LoginRequest{Email: "nobody@x.com", Password: "whatever"})

	// Both failures collapse to the same message so responses don't reveal
	// which emails are registered.
	require.Error(t, errWrongPw)
	require.Error(t, errNoUser)
	assert.ErrorIs(t, errWrongPw, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errNoUser, domain.ErrInvalidCredentials)
	assert.Equal(t, errWrongPw.Error(), errNoUser.Error())
}

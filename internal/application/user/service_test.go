package user

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
func (m *mockUserStore) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Insert(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

type mockSigner struct{ mock.Mock }

func (m *mockSigner) Sign(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func TestRegister_HappyPath(t *testing.T) {
	repo := &mockUserStore{}
	signer := &mockSigner{}

	repo.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	var inserted *domain.User
	repo.On("Insert", mock.Anything, mock.AnythingOfType("*domain.User")).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(*domain.User)
	}).Return(nil)
	signer.On("Sign", mock.AnythingOfType("string")).Return("tok", nil)

	svc := NewService(repo, signer, 5*time.Second)
	u, token, err := svc.Register(context.Background(), domain.RegisterRequest{
		Name: "A", Email: "a@x.com", Password: "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "a@x.com", u.Email)
	assert.NotEmpty(t, u.UserID)
	require.NotNil(t, inserted)
	// The stored hash is salted bcrypt, never the plaintext.
	assert.NotEqual(t, "secret123", inserted.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(inserted.PasswordHash), []byte("secret123")))
	repo.AssertExpectations(t)
}

func TestRegister_Hash_NonDeterministic(t *testing.T) {
	repo := &mockUserStore{}
	signer := &mockSigner{}

	repo.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	var hashes []string
	repo.On("Insert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		hashes = append(hashes, args.Get(1).(*domain.User).PasswordHash)
	}).Return(nil)
	signer.On("Sign", mock.Anything).Return("tok", nil)

	svc := NewService(repo, signer, 5*time.Second)
	for _, email := range []string{"a@x.com", "b@x.com"} {
		_, _, err := svc.Register(context.Background(), domain.RegisterRequest{
			Name: "A", Email: email, Password: "secret123",
		})
		require.NoError(t, err)
	}

	require.Len(t, hashes, 2)
	assert.NotEqual(t, hashes[0], hashes[1], "same password must hash to different values")
	for _, h := range hashes {
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("secret123")))
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("GetByEmail", mock.Anything, "a@x.com").Return(&domain.User{UserID: "u1", Email: "a@x.com"}, nil)

	svc := NewService(repo, &mockSigner{}, 5*time.Second)
	_, _, err := svc.Register(context.Background(), domain.RegisterRequest{
		Name: "B", Email: "a@x.com", Password: "secret123",
	})

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestRegister_InsertRace_MapsDuplicateKey(t *testing.T) {
	repo := &mockUserStore{}
	signer := &mockSigner{}

	// Lookup misses, but a concurrent registration wins the conditional put.
	repo.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, domain.ErrNotFound)
	repo.On("Insert", mock.Anything, mock.Anything).Return(domain.ErrDuplicateKey)

	svc := NewService(repo, signer, 5*time.Second)
	_, _, err := svc.Register(context.Background(), domain.RegisterRequest{
		Name: "A", Email: "a@x.com", Password: "secret123",
	})

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestGet_PassesThrough(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("GetByID", mock.Anything, "u1").Return(&domain.User{UserID: "u1", Name: "A"}, nil)

	svc := NewService(repo, &mockSigner{}, 5*time.Second)
	u, err := svc.Get(context.Background(), "u1")

	require.NoError(t, err)
	assert.Equal(t, "A", u.Name)
}

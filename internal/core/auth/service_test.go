package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knightd/internal/config"
	"knightd/internal/domain"
)

type memoryRepo struct {
	users map[string]*domain.User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]*domain.User)}
}

func (r *memoryRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *memoryRepo) CreateUser(_ context.Context, user *domain.User) error {
	user.ID = int64(len(r.users) + 1)
	r.users[user.Email] = user
	return nil
}

func testCfg() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, testCfg())
	ctx := context.Background()

	req := domain.RegisterRequest{Email: "knight@raphael.local", Password: "hunter2hunter2"}
	require.NoError(t, svc.Register(ctx, req))

	// Stored password must be hashed, never plaintext.
	stored := repo.users[req.Email]
	assert.NotEqual(t, req.Password, stored.Password)

	res, err := svc.Login(ctx, domain.LoginRequest{Email: req.Email, Password: req.Password})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)

	claims, err := VerifyToken(res.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, req.Email, claims["email"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, testCfg())
	ctx := context.Background()

	req := domain.RegisterRequest{Email: "knight@raphael.local", Password: "hunter2hunter2"}
	require.NoError(t, svc.Register(ctx, req))

	err := svc.Register(ctx, req)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, testCfg())
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, domain.RegisterRequest{
		Email:    "knight@raphael.local",
		Password: "hunter2hunter2",
	}))

	_, err := svc.Login(ctx, domain.LoginRequest{Email: "knight@raphael.local", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@raphael.local", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, testCfg())
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, domain.RegisterRequest{
		Email:    "knight@raphael.local",
		Password: "hunter2hunter2",
	}))

	res, err := svc.Login(ctx, domain.LoginRequest{
		Email:    "knight@raphael.local",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = VerifyToken(res.AccessToken, "other-secret")
	assert.Error(t, err)
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renthub_backend/internal/config"
	"renthub_backend/internal/services/dto"
	"renthub_backend/pkg/apperrors"
)

func newAuthFixture(t *testing.T) AuthService {
	t.Helper()
	if config.AppConfig == nil {
		cfg := &config.Config{}
		cfg.JWT.Secret = "test-secret"
		cfg.JWT.TTL = 60
		config.AppConfig = cfg
	}
	return NewAuthService(newFakeUserRepo())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &dto.RegisterRequest{
		Name:     "Aigerim",
		Email:    "Aigerim@Example.com",
		Password: "sup3r-secret",
		City:     "Almaty",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, registered.AccessToken)
	assert.Equal(t, "aigerim@example.com", registered.User.Email, "email must be normalized")

	logged, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "aigerim@example.com",
		Password: "sup3r-secret",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, logged.User.ID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	req := &dto.RegisterRequest{Name: "A", Email: "dup@example.com", Password: "sup3r-secret"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeAlreadyExists, appErr.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Name: "B", Email: "b@example.com", Password: "sup3r-secret",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "b@example.com", Password: "wrong-pass"})
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
}

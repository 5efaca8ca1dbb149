package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibeprint/storefront/pkg/util"
)

const testJWTSecret = "test-jwt-secret"

func setupAuthServiceTest(t *testing.T, hash string) AuthService {
	return NewAuthService(AdminCredentials{
		Email:        "admin@vibeprint.co.ke",
		PasswordHash: hash,
	}, testJWTSecret, 15*time.Minute)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := util.HashPassword("print-all-the-totes")
	require.NoError(t, err)
	authService := setupAuthServiceTest(t, hash)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "Valid credentials", email: "admin@vibeprint.co.ke", password: "print-all-the-totes"},
		{name: "Email is case-insensitive", email: " Admin@VibePrint.co.ke ", password: "print-all-the-totes"},
		{name: "Wrong password", email: "admin@vibeprint.co.ke", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "Unknown email", email: "someone@vibeprint.co.ke", password: "print-all-the-totes", wantErr: ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := authService.Login(tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, token)
				return
			}
			require.NoError(t, err)

			claims, err := util.ValidateToken(token.Token, testJWTSecret)
			require.NoError(t, err)
			assert.Equal(t, "admin@vibeprint.co.ke", claims.Email)
			assert.Equal(t, RoleAdmin, claims.Role)
		})
	}
}

func TestAuthService_LoginDisabledWithoutHash(t *testing.T) {
	authService := setupAuthServiceTest(t, "")

	_, err := authService.Login("admin@vibeprint.co.ke", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

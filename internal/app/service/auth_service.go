package service

import (
	"errors"
	"strings"
	"time"

	"github.com/vibeprint/storefront/pkg/logger"
	"github.com/vibeprint/storefront/pkg/util"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

const RoleAdmin = "admin"

// AdminCredentials identify the single store operator. PasswordHash is a
// bcrypt hash; an empty hash disables login.
type AdminCredentials struct {
	Email        string
	PasswordHash string
}

// AuthService issues access tokens for the admin endpoints.
type AuthService interface {
	Login(email, password string) (*util.AccessToken, error)
}

type authService struct {
	admin        AdminCredentials
	jwtSecret    string
	accessExpiry time.Duration
}

func NewAuthService(admin AdminCredentials, jwtSecret string, accessExpiry time.Duration) AuthService {
	return &authService{
		admin:        admin,
		jwtSecret:    jwtSecret,
		accessExpiry: accessExpiry,
	}
}

func (s *authService) Login(email, password string) (*util.AccessToken, error) {
	email = strings.TrimSpace(email)

	if !strings.EqualFold(email, s.admin.Email) || !util.VerifyPassword(s.admin.PasswordHash, password) {
		logger.Warn("Admin login failed", map[string]interface{}{
			"email": email,
		})
		return nil, ErrInvalidCredentials
	}

	token, err := util.GenerateAccessToken(s.admin.Email, RoleAdmin, s.jwtSecret, s.accessExpiry)
	if err != nil {
		logger.Error("Failed to generate access token", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	logger.Info("Admin logged in", map[string]interface{}{
		"email":      s.admin.Email,
		"expires_at": token.ExpiresAt,
	})
	return token, nil
}

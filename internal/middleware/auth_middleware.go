package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/vibeprint/storefront/internal/errors"
	"github.com/vibeprint/storefront/pkg/util"
)

const (
	UserEmailKey = "user_email"
	UserRoleKey  = "user_role"
)

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate requires a valid "Bearer <token>" Authorization header.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Missing authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Warn("Invalid authorization header format", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Authorization header must be a Bearer token")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(parts[1], m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if errors.Is(err, util.ErrExpiredToken) {
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Session expired, please log in again")
			} else {
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid authentication token")
			}
			c.Abort()
			return
		}

		c.Set(UserEmailKey, claims.Email)
		c.Set(UserRoleKey, claims.Role)

		log.Debug("Request authenticated", map[string]interface{}{
			"email": claims.Email,
			"role":  claims.Role,
		})

		c.Next()
	}
}

// RequireRole must run after Authenticate.
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		role, exists := GetUserRole(c)
		if !exists {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzRoleNotFound, "Role information is missing")
			c.Abort()
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		email, _ := GetUserEmail(c)
		log.Warn("Insufficient permissions", map[string]interface{}{
			"email":          email,
			"user_role":      role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		apperrors.Forbidden(c, "")
		c.Abort()
	}
}

func GetUserEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(UserEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}

func GetUserRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(UserRoleKey)
	if !exists {
		return "", false
	}
	s, ok := role.(string)
	return s, ok
}

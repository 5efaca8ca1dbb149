package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vibeprint/storefront/internal/errors"
	"github.com/vibeprint/storefront/pkg/util"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

func setupMiddlewareTest() (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())
	return router, NewAuthMiddleware(testJWTSecret)
}

func generateTestToken(t *testing.T, email, role string, expiry time.Duration) string {
	token, err := util.GenerateAccessToken(email, role, testJWTSecret, expiry)
	require.NoError(t, err)
	return token.Token
}

func decodeErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	router, auth := setupMiddlewareTest()
	token := generateTestToken(t, "admin@vibeprint.co.ke", "admin", 15*time.Minute)

	router.GET("/test", auth.Authenticate(), func(c *gin.Context) {
		email, _ := GetUserEmail(c)
		role, _ := GetUserRole(c)
		c.JSON(http.StatusOK, gin.H{"email": email, "role": role})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "admin@vibeprint.co.ke", body["email"])
	assert.Equal(t, "admin", body["role"])
}

func TestAuthMiddleware_Authenticate_Rejections(t *testing.T) {
	expired := generateTestToken(t, "admin@vibeprint.co.ke", "admin", -time.Minute)

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{name: "No token", header: "", wantCode: apperrors.AuthUnauthorized},
		{name: "Invalid format", header: "Token abc", wantCode: apperrors.AuthTokenInvalid},
		{name: "Missing bearer value", header: "Bearer", wantCode: apperrors.AuthTokenInvalid},
		{name: "Invalid token", header: "Bearer invalid.token.here", wantCode: apperrors.AuthTokenInvalid},
		{name: "Expired token", header: "Bearer " + expired, wantCode: apperrors.AuthTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, auth := setupMiddlewareTest()
			router.GET("/test", auth.Authenticate(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.wantCode, decodeErrorCode(t, w))
		})
	}
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		roles      []string
		wantStatus int
	}{
		{name: "Admin allowed", role: "admin", roles: []string{"admin"}, wantStatus: http.StatusOK},
		{name: "Any of several roles", role: "editor", roles: []string{"admin", "editor"}, wantStatus: http.StatusOK},
		{name: "Wrong role", role: "viewer", roles: []string{"admin"}, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, auth := setupMiddlewareTest()
			token := generateTestToken(t, "ops@vibeprint.co.ke", tt.role, 15*time.Minute)

			router.GET("/admin", auth.Authenticate(), auth.RequireRole(tt.roles...), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthMiddleware_RequireRole_WithoutAuthenticate(t *testing.T) {
	router, auth := setupMiddlewareTest()
	router.GET("/admin", auth.RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.AuthzRoleNotFound, decodeErrorCode(t, w))
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	router, _ := setupMiddlewareTest()
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "upstream-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "upstream-id", w.Header().Get(RequestIDHeader))
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware([]string{"http://localhost:5173"}))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

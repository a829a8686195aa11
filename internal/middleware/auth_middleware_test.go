package middleware

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sportaccessories/storefront/internal/app/model"
	"github.com/sportaccessories/storefront/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

type fakeRevocations struct {
	tokens map[string]bool
	err    error
}

func (f *fakeRevocations) IsRevoked(_ context.Context, token string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.tokens[token], nil
}

func setupMiddlewareTest(revoked RevocationChecker) (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())
	return router, NewAuthMiddleware(testJWTSecret, revoked)
}

func generateTestToken(t *testing.T, userID uint, email, role string, expiry time.Duration) string {
	token, _, err := util.GenerateToken(userID, email, role, testJWTSecret, expiry)
	require.NoError(t, err)
	return token
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	code, _ := body["error"].(string)
	return code
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	router, auth := setupMiddlewareTest(nil)
	token := generateTestToken(t, 1, "test@example.com", "user", time.Hour)

	router.GET("/test", auth.Authenticate(), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		email, _ := GetUserEmail(c)
		role, _ := GetUserRole(c)
		raw, expiresAt, ok := GetToken(c)

		assert.True(t, ok)
		assert.Equal(t, token, raw)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

		c.JSON(http.StatusOK, gin.H{"user_id": userID, "email": email, "role": role})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":1,"email":"test@example.com","role":"user"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestAuthMiddleware_Authenticate_Rejects(t *testing.T) {
	expired := generateTestToken(t, 1, "test@example.com", "user", -time.Minute)
	foreign, _, err := util.GenerateToken(1, "test@example.com", "user", "other-secret", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{name: "No header", header: "", wantCode: "AUTH_UNAUTHORIZED"},
		{name: "Missing Bearer prefix", header: "invalid-token", wantCode: "AUTH_TOKEN_INVALID"},
		{name: "Wrong prefix", header: "Basic token123", wantCode: "AUTH_TOKEN_INVALID"},
		{name: "Empty token", header: "Bearer ", wantCode: "AUTH_TOKEN_INVALID"},
		{name: "Garbage token", header: "Bearer not.a.jwt", wantCode: "AUTH_TOKEN_INVALID"},
		{name: "Wrong secret", header: "Bearer " + foreign, wantCode: "AUTH_TOKEN_INVALID"},
		{name: "Expired", header: "Bearer " + expired, wantCode: "AUTH_TOKEN_EXPIRED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, auth := setupMiddlewareTest(nil)
			handled := false
			router.GET("/test", auth.Authenticate(), func(c *gin.Context) {
				handled = true
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
			assert.False(t, handled)
		})
	}
}

func TestAuthMiddleware_Authenticate_Revoked(t *testing.T) {
	token := generateTestToken(t, 1, "test@example.com", "user", time.Hour)
	router, auth := setupMiddlewareTest(&fakeRevocations{tokens: map[string]bool{token: true}})
	router.GET("/test", auth.Authenticate(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_TOKEN_REVOKED", errorCode(t, w))
}

func TestAuthMiddleware_Authenticate_RevocationStoreDown(t *testing.T) {
	token := generateTestToken(t, 1, "test@example.com", "user", time.Hour)
	router, auth := setupMiddlewareTest(&fakeRevocations{err: stdErrors.New("redis down")})
	router.GET("/test", auth.Authenticate(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		wantStatus int
	}{
		{name: "Admin allowed", role: "admin", wantStatus: http.StatusOK},
		{name: "Customer forbidden", role: "user", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, auth := setupMiddlewareTest(nil)
			router.GET("/admin", auth.Authenticate(), auth.RequireRole(model.RoleAdmin), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+generateTestToken(t, 9, "x@example.com", tt.role, time.Hour))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestAuthMiddleware_RequireRole_WithoutAuthenticate(t *testing.T) {
	router, auth := setupMiddlewareTest(nil)
	router.GET("/admin", auth.RequireRole(model.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoggingMiddleware_PropagatesRequestID(t *testing.T) {
	router, _ := setupMiddlewareTest(nil)
	router.GET("/ping", func(c *gin.Context) {
		assert.NotNil(t, GetLoggerFromContext(c))
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Body.String())
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

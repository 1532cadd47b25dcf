package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gamassss/slinkr/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func generateTestToken(t *testing.T, secret string, method jwt.SigningMethod, ttl time.Duration) string {
	t.Helper()

	claims := &jwt.RegisteredClaims{
		Subject:   "owner@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	tokenString, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tokenString
}

func TestAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		header         string
		cookie         string
		expectedStatus int
	}{
		{
			name:           "no credentials",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid bearer",
			header:         "Bearer invalid.jwt.token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "valid bearer",
			header:         "Bearer " + generateTestToken(t, testSecret, jwt.SigningMethodHS256, time.Minute),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "valid cookie",
			cookie:         generateTestToken(t, testSecret, jwt.SigningMethodHS256, time.Minute),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong secret",
			header:         "Bearer " + generateTestToken(t, "other", jwt.SigningMethodHS256, time.Minute),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired",
			cookie:         generateTestToken(t, testSecret, jwt.SigningMethodHS256, -time.Minute),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "other hmac algorithm",
			header:         "Bearer " + generateTestToken(t, testSecret, jwt.SigningMethodHS512, time.Minute),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/api/links", Auth(testSecret), func(c *gin.Context) {
				assert.Equal(t, "owner@example.com", Subject(c))
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/api/links", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "auth-token", Value: tt.cookie})
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestLogger_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen string
	router := gin.New()
	router.Use(Logger())
	router.GET("/ping", func(c *gin.Context) {
		seen = logger.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "upstream-id", seen)
	assert.Equal(t, "upstream-id", w.Header().Get("X-Request-ID"))
}

func TestLogger_RecordsSubject(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })

	router := gin.New()
	router.Use(Logger())
	router.GET("/api/links", Auth(testSecret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/api/links", nil)
	req.Header.Set("Authorization", "Bearer "+generateTestToken(t, testSecret, jwt.SigningMethodHS256, time.Hour))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), `"subject":"owner@example.com"`)

	buf.Reset()
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/links", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, buf.String(), `"subject"`)
}

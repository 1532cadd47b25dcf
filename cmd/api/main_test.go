package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/gamassss/slinkr/internal/handler"
	"github.com/gamassss/slinkr/pkg/slug"
	"github.com/gamassss/slinkr/tests/mocks"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-secret"

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockLinkService) {
	t.Helper()

	links := new(mocks.MockLinkService)
	clicks := new(mocks.MockClickService)
	analytics := new(mocks.MockAnalyticsService)
	codec := slug.New(slug.DefaultReserved, slug.DefaultLength)

	router := setupRouter(handlers{
		links:     handler.NewLinkHandler(links, "http://sl.test"),
		redirect:  handler.NewRedirectHandler(links, clicks, codec, time.Second),
		analytics: handler.NewAnalyticsHandler(analytics, clicks),
		health:    handler.NewHealthHandler(map[string]handler.PingFunc{}),
	}, testSecret)

	return router, links
}

func signedToken(t *testing.T) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Subject:   "owner",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	return token
}

func TestRouter_HealthIsPublic(t *testing.T) {
	router, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_APIRequiresToken(t *testing.T) {
	router, links := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/links", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	links.AssertNotCalled(t, "List", mock.Anything)
}

func TestRouter_APIWithToken(t *testing.T) {
	router, links := newTestRouter(t)
	links.On("List", mock.Anything).Return([]domain.Link{{ID: "id-1", Slug: "abc1234"}}, nil).Once()

	req := httptest.NewRequest("GET", "/api/links", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http://sl.test/abc1234")
	links.AssertExpectations(t)
}

func TestRouter_TopIsNotTreatedAsID(t *testing.T) {
	router, links := newTestRouter(t)
	links.On("Top", mock.Anything, 3).Return([]domain.Link{}, nil).Once()

	req := httptest.NewRequest("GET", "/api/links/top?n=3", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	links.AssertExpectations(t)
}

func TestRouter_ReservedSlugIsNotRedirected(t *testing.T) {
	router, links := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/dashboard", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	links.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

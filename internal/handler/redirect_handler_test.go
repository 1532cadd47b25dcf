package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gamassss/slinkr/internal/domain"
	"github.com/gamassss/slinkr/pkg/slug"
	"github.com/gamassss/slinkr/tests/mocks"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupRedirect() (*gin.Engine, *mocks.MockLinkService, *mocks.MockClickService) {
	links := new(mocks.MockLinkService)
	clicks := new(mocks.MockClickService)
	handler := NewRedirectHandler(links, clicks, slug.New(slug.DefaultReserved, slug.DefaultLength), time.Second)

	router := setupTestRouter()
	router.GET("/:slug", handler.Redirect)

	return router, links, clicks
}

func TestRedirect_Success(t *testing.T) {
	router, links, clicks := setupRedirect()

	link := &domain.Link{ID: "id-1", Slug: "abc1234", URL: "https://example.com"}
	links.On("Resolve", mock.Anything, "abc1234").Return(link, nil).Once()

	recorded := make(chan *domain.ClickRequest, 1)
	clicks.On("Record", mock.Anything, mock.AnythingOfType("*domain.ClickRequest")).
		Run(func(args mock.Arguments) {
			recorded <- args.Get(1).(*domain.ClickRequest)
		}).
		Return(&domain.Click{}, nil).Once()

	req := httptest.NewRequest("GET", "/abc1234", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 Firefox/120.0")
	req.Header.Set("Referer", "https://news.example.com/post")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://example.com", w.Header().Get("Location"))

	select {
	case got := <-recorded:
		assert.Equal(t, "id-1", got.LinkID)
		assert.Equal(t, "Mozilla/5.0 Firefox/120.0", got.UserAgent)
		assert.Equal(t, "https://news.example.com/post", got.Referer)
		assert.Equal(t, "203.0.113.7", got.IP)
	case <-time.After(2 * time.Second):
		t.Fatal("click was not recorded")
	}

	links.AssertExpectations(t)
}

func TestRedirect_RecordFailureStillRedirects(t *testing.T) {
	router, links, clicks := setupRedirect()

	links.On("Resolve", mock.Anything, "abc1234").
		Return(&domain.Link{ID: "id-1", URL: "https://example.com"}, nil).Once()

	done := make(chan struct{})
	clicks.On("Record", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { close(done) }).
		Return(nil, errors.New("db down")).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/abc1234", nil))

	assert.Equal(t, http.StatusFound, w.Code)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("record was not attempted")
	}
}

func TestRedirect_NotFound(t *testing.T) {
	router, links, clicks := setupRedirect()

	links.On("Resolve", mock.Anything, "notfound").Return(nil, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/notfound", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Link not found.", decode(t, w)["error"])
	clicks.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestRedirect_ReservedSlugNeverResolved(t *testing.T) {
	router, links, clicks := setupRedirect()

	for _, reserved := range []string{"login", "setup", "dashboard", "api"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/"+reserved, nil))

		assert.Equal(t, http.StatusNotFound, w.Code, reserved)
	}

	links.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
	clicks.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestRedirect_ServiceError(t *testing.T) {
	router, links, clicks := setupRedirect()

	links.On("Resolve", mock.Anything, "abc1234").
		Return(nil, errors.New("database connection failed")).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/abc1234", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decode(t, w)["error"])
	clicks.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

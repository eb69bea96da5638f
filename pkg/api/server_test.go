package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quietloop/dailies/pkg/logging"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	logger, _ := logging.New("api-test")
	t.Cleanup(func() { logger.Close() })
	return NewServer(0, nil, nil, logger)
}

func TestHealth(t *testing.T) {
	srv := testServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSearch_UnconfiguredEmbedder(t *testing.T) {
	srv := testServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/search?q=go", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestConversation_InvalidID(t *testing.T) {
	srv := testServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/conversations/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=7", nil)
	assert.Equal(t, 7, queryInt(req, "limit", 10))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, 10, queryInt(req, "limit", 10))

	req = httptest.NewRequest(http.MethodGet, "/?limit=-3", nil)
	assert.Equal(t, 10, queryInt(req, "limit", 10))

	req = httptest.NewRequest(http.MethodGet, "/?limit=abc", nil)
	assert.Equal(t, 10, queryInt(req, "limit", 10))
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authorsite/internal/auth"
	"authorsite/internal/catalog"
	"authorsite/internal/config"
	"authorsite/internal/platform/crypto"
	"authorsite/internal/redirect"
	"authorsite/internal/testutil"
	"authorsite/internal/upcoming"
	"authorsite/internal/validation"
)

const forestID = "abcdefgh-1234-5678-9abc-def012345678"

type testServer struct {
	handler  http.Handler
	repo     *catalog.MockRepository
	store    *upcoming.MockStore
	readyErr error
	// readyPanic makes the readiness probe panic.
	readyPanic bool
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctrl := gomock.NewController(t)
	ts := &testServer{
		repo:  catalog.NewMockRepository(ctrl),
		store: upcoming.NewMockStore(ctrl),
	}

	hash, err := crypto.HashPassword("Correct-Horse-42!")
	require.NoError(t, err)

	cfg := config.Config{
		JWTSecret:      testutil.TestSecret,
		AllowedOrigins: []string{"http://localhost:5173"},
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
		MaxBodyBytes:   1 << 20,
	}
	v := validation.New()
	catalogService := catalog.NewService(ts.repo)

	ts.handler = newRouter(routes{
		cfg:                cfg,
		books:              catalog.NewHTTPHandler(catalogService, v),
		upcoming:           upcoming.NewHTTPHandler(upcoming.NewService(ts.store), v),
		auth:               auth.NewHTTPHandler(auth.NewService(cfg.JWTSecret, testutil.TestAdminEmail, hash), v),
		booksRedirect:      redirect.NewResolver(catalogService, redirect.Books),
		multimediaRedirect: redirect.NewResolver(catalogService, redirect.Multimedia),
		ready: func(context.Context) error {
			if ts.readyPanic {
				panic("pool exploded")
			}
			return ts.readyErr
		},
	})
	return ts
}

func (ts *testServer) do(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, r)
	return w
}

func TestHealthAndReadiness(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = ts.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	ts.readyErr = errors.New("pool closed")
	w = ts.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPanicResponseCarriesRequestID(t *testing.T) {
	ts := newTestServer(t)
	ts.readyPanic = true

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	req.Header.Set("X-Request-Id", "req-ready-7")
	w := ts.do(req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "req-ready-7", w.Header().Get("X-Request-Id"))
	var body struct {
		Success bool           `json:"success"`
		Meta    map[string]any `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "req-ready-7", body.Meta["request_id"])
}

func TestRedirectRoutes(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		path     string
		location string
	}{
		{"/.netlify/functions/redirect-books", "/books/magic-forest-abcdefgh"},
		{"/.netlify/functions/redirect-multimedia", "/multimedia/magic-forest-abcdefgh"},
		{"/redirect/books", "/books/magic-forest-abcdefgh"},
		{"/redirect/multimedia", "/multimedia/magic-forest-abcdefgh"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ts.repo.EXPECT().GetEntry(gomock.Any(), forestID).Return(catalog.Entry{ID: forestID, Slug: "magic-forest"}, nil)

			w := ts.do(httptest.NewRequest(http.MethodGet, tt.path+"?id="+forestID, nil))
			assert.Equal(t, http.StatusMovedPermanently, w.Code)
			assert.Equal(t, tt.location, w.Header().Get("Location"))
		})
	}

	t.Run("missing id", func(t *testing.T) {
		w := ts.do(httptest.NewRequest(http.MethodGet, "/.netlify/functions/redirect-books", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPublicRoutes(t *testing.T) {
	ts := newTestServer(t)

	ts.store.EXPECT().SelectAll(gomock.Any()).Return(nil, nil)
	w := ts.do(httptest.NewRequest(http.MethodGet, "/v1/upcoming-books", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	ts.store.EXPECT().SelectOne(gomock.Any(), forestID).Return(upcoming.Row{}, upcoming.ErrNoRows)
	w = ts.do(httptest.NewRequest(http.MethodGet, "/v1/upcoming-books/"+forestID, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	ts.repo.EXPECT().GetBySlug(gomock.Any(), "magic-forest").Return(catalog.Book{ID: forestID, Slug: "magic-forest"}, nil)
	w = ts.do(httptest.NewRequest(http.MethodGet, "/v1/books/magic-forest-abcdefgh", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(httptest.NewRequest(http.MethodPost, "/v1/upcoming-books", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestAdminRoutesRequireAdminToken(t *testing.T) {
	ts := newTestServer(t)
	path := "/v1/admin/upcoming-books/" + forestID

	w := ts.do(testutil.NewRequest(http.MethodDelete, path, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	expired := testutil.GenerateExpiredToken(testutil.TestSecret, testutil.TestAdminEmail, crypto.RoleAdmin)
	w = ts.do(testutil.NewRequestWithAuth(http.MethodDelete, path, nil, expired))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	reader := testutil.GenerateTestToken(testutil.TestSecret, "reader@example.com", "USER")
	w = ts.do(testutil.NewRequestWithAuth(http.MethodDelete, path, nil, reader))
	assert.Equal(t, http.StatusForbidden, w.Code)

	ts.store.EXPECT().Delete(gomock.Any(), forestID).Return(int64(1), nil)
	w = ts.do(testutil.NewRequestWithAuth(http.MethodDelete, path, nil, testutil.AdminToken()))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminLoginThenCreate(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(testutil.NewRequest(http.MethodPost, "/v1/admin/login", map[string]string{
		"email":    testutil.TestAdminEmail,
		"password": "Correct-Horse-42!",
	}))
	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusOK, resp.Code)
	token, ok := resp.Body["data"].(map[string]any)["accessToken"].(string)
	require.True(t, ok)

	ts.store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(forestID, nil)
	w = ts.do(testutil.NewRequestWithAuth(http.MethodPost, "/v1/admin/upcoming-books", map[string]string{
		"title":               "The Magic Forest",
		"author":              "Jane Doe",
		"description":         "Trees that talk back.",
		"expectedReleaseDate": "2027-03-01",
	}, token))
	assert.Equal(t, http.StatusCreated, w.Code)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookregistry/internal/config"
	"bookregistry/internal/platform/notion/notiontest"
	"bookregistry/internal/registration"
	"bookregistry/internal/registry"
	"bookregistry/internal/testutil"
)

func testConfig() *config.Config {
	return &config.Config{
		InternalSecret: "ops",
		CORSOrigins:    []string{"http://localhost:3000"},
		RateLimitRPS:   100,
		RateLimitBurst: 100,
		MaxBodyBytes:   1 << 10,
		LogFormat:      "json",
	}
}

func newTestRouter(t *testing.T, ready func(context.Context) error) (http.Handler, *notiontest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	fake := notiontest.NewServer(t)
	fake.AddDatabase("books-db")
	registrar := registry.NewService(registry.NotionStores(fake.Config()), zerolog.Nop())
	svc := registration.NewService(registrar, nil, zerolog.Nop())

	return newRouter(ctx, routerDeps{
		cfg:           testConfig(),
		logger:        zerolog.Nop(),
		registrations: registration.NewHTTPHandler(svc),
		ready:         ready,
	}), fake
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestRouter_Health(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = serve(router, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ReadyzReportsDatabase(t *testing.T) {
	router, _ := newTestRouter(t, func(context.Context) error { return errors.New("down") })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_Registrations(t *testing.T) {
	router, fake := newTestRouter(t, nil)

	r := testutil.NewRequestWithToken(http.MethodPost, "/registrations", testutil.TestBook(), "secret_token")
	res := testutil.RecordHTTPResponse(serve(router, r))
	testutil.AssertResponseCode(t, res.Code, http.StatusCreated)
	testutil.AssertResponseBody(t, res.Data(), "created", true)
	require.Len(t, fake.Pages(), 1)

	icon := fake.Pages()[0].Icon
	require.NotNil(t, icon)
	assert.Equal(t, *testutil.TestBook().ThumbnailURL, icon.External.URL)

	r = testutil.NewRequestWithToken(http.MethodPost, "/registrations", testutil.MinimalBook(), "")
	res = testutil.RecordHTTPResponse(serve(router, r))
	testutil.AssertResponseCode(t, res.Code, http.StatusUnauthorized)
	assert.Equal(t, "UNAUTHORIZED", res.ErrorCode())

	w := serve(router, httptest.NewRequest(http.MethodPut, "/registrations", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRouter_HistoryIsInternal(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := serve(router, httptest.NewRequest(http.MethodGet, "/registrations", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r := httptest.NewRequest(http.MethodGet, "/registrations", nil)
	r.Header.Set("X-Internal-Secret", "ops")
	w = serve(router, r)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "AUDIT_DISABLED")
}

func TestRouter_BodyLimit(t *testing.T) {
	router, fake := newTestRouter(t, nil)

	r := httptest.NewRequest(http.MethodPost, "/registrations", strings.NewReader(strings.Repeat("x", 2048)))
	r.Header.Set("Authorization", "Bearer secret_token")

	w := serve(router, r)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Empty(t, fake.Requests())
}

func TestRouter_CORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	r := httptest.NewRequest(http.MethodOptions, "/registrations", nil)
	r.Header.Set("Origin", "http://localhost:3000")

	w := serve(router, r)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

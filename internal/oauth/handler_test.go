package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"raindoor/pkg/config"
	"raindoor/pkg/credentials"
)

const testShop = "my-store.myshopify.com"

func testConfig() config.Config {
	return config.Config{
		Env:           "test",
		APIKey:        "test-api-key",
		APISecret:     "test-api-secret",
		Scopes:        "read_products",
		BasePublicURL: "https://backup.example.com",
		StateTTL:      10 * time.Minute,
	}
}

// fakeTokenEndpoint stands in for /admin/oauth/access_token.
func fakeTokenEndpoint(t *testing.T, status int, token string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/admin/oauth/access_token", r.URL.Path)
		if status != http.StatusOK {
			http.Error(w, "nope", status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"` + token + `","scope":"read_products"}`))
	}))
}

func newTestHandler(t *testing.T, store credentials.Store, tokenURL string) http.Handler {
	t.Helper()
	h := NewHandler(testConfig(), zap.NewNop().Sugar(), store)
	if tokenURL != "" {
		h.Exchanger().BaseURL = func(string) string { return tokenURL }
	}
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func signedCallbackQuery(t *testing.T, state string) url.Values {
	t.Helper()
	params := url.Values{
		"shop":      {testShop},
		"code":      {"authcode"},
		"state":     {state},
		"timestamp": {"1700000000"},
	}
	params.Set("hmac", SignParams(params, "test-api-secret"))
	return params
}

func TestBeginIssuesTopFrameRedirect(t *testing.T) {
	router := newTestHandler(t, credentials.NewMemoryStore(), "")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth?shop="+testShop, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "window.top.location.href")
	assert.Contains(t, body, "https://"+testShop+"/admin/oauth/authorize")
	assert.Contains(t, body, "client_id=test-api-key")
	assert.Contains(t, body, "scope=read_products")

	var state *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == stateCookieName {
			state = c
		}
	}
	require.NotNil(t, state, "state cookie not set")
	assert.NotEmpty(t, state.Value)
	assert.True(t, state.HttpOnly)
	assert.True(t, state.Secure)
	assert.Equal(t, http.SameSiteNoneMode, state.SameSite)
	assert.Contains(t, body, "state="+state.Value)
}

func TestBeginRejectsMissingOrInvalidShop(t *testing.T) {
	router := newTestHandler(t, credentials.NewMemoryStore(), "")

	for _, target := range []string{"/auth", "/auth?shop=evil.example.com", "/auth?shop=a.myshopify.com/x"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestCallbackStateMismatchRejectedBeforeExchange(t *testing.T) {
	var calls atomic.Int32
	srv := fakeTokenEndpoint(t, http.StatusOK, "shpat_x", &calls)
	defer srv.Close()
	router := newTestHandler(t, credentials.NewMemoryStore(), srv.URL)

	// valid signature, but the state does not match the cookie
	params := signedCallbackQuery(t, "returned-state")
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?"+params.Encode(), nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "issued-state"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, calls.Load(), "exchange must not run on a forged callback")
}

func TestCallbackMissingCookieRejected(t *testing.T) {
	router := newTestHandler(t, credentials.NewMemoryStore(), "")

	params := signedCallbackQuery(t, "some-state")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/callback?"+params.Encode(), nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCallbackInvalidSignatureRejected(t *testing.T) {
	var calls atomic.Int32
	srv := fakeTokenEndpoint(t, http.StatusOK, "shpat_x", &calls)
	defer srv.Close()
	router := newTestHandler(t, credentials.NewMemoryStore(), srv.URL)

	params := signedCallbackQuery(t, "the-state")
	params.Set("hmac", "0000000000000000000000000000000000000000000000000000000000000000")
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?"+params.Encode(), nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "the-state"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, calls.Load())
}

func TestCallbackMissingCodeRejected(t *testing.T) {
	router := newTestHandler(t, credentials.NewMemoryStore(), "")

	params := url.Values{"shop": {testShop}, "state": {"s"}, "timestamp": {"1700000000"}}
	params.Set("hmac", SignParams(params, "test-api-secret"))
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?"+params.Encode(), nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "s"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallbackSuccessStoresCredentialAndRedirects(t *testing.T) {
	var calls atomic.Int32
	srv := fakeTokenEndpoint(t, http.StatusOK, "shpat_first", &calls)
	defer srv.Close()
	store := credentials.NewMemoryStore()
	router := newTestHandler(t, store, srv.URL)

	params := signedCallbackQuery(t, "good-state")
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?"+params.Encode(), nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "good-state"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?shop="+testShop, rec.Header().Get("Location"))
	assert.Equal(t, int32(1), calls.Load())

	cred, err := store.Get(context.Background(), testShop)
	require.NoError(t, err)
	assert.Equal(t, "shpat_first", cred.AccessToken)

	// the one-shot state cookie is cleared
	var cleared bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == stateCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "state cookie should be cleared")
}

func TestReinstallOverwritesCredential(t *testing.T) {
	store := credentials.NewMemoryStore()
	for _, token := range []string{"shpat_first", "shpat_second"} {
		var calls atomic.Int32
		srv := fakeTokenEndpoint(t, http.StatusOK, token, &calls)
		router := newTestHandler(t, store, srv.URL)

		params := signedCallbackQuery(t, "good-state")
		req := httptest.NewRequest(http.MethodGet, "/auth/callback?"+params.Encode(), nil)
		req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "good-state"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusFound, rec.Code)
		srv.Close()
	}

	cred, err := store.Get(context.Background(), testShop)
	require.NoError(t, err)
	assert.Equal(t, "shpat_second", cred.AccessToken)
}

func TestCallbackExchangeFailureIsGeneric500(t *testing.T) {
	var calls atomic.Int32
	srv := fakeTokenEndpoint(t, http.StatusUnprocessableEntity, "", &calls)
	defer srv.Close()
	store := credentials.NewMemoryStore()
	router := newTestHandler(t, store, srv.URL)

	params := signedCallbackQuery(t, "good-state")
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?"+params.Encode(), nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "good-state"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "test-api-secret")
	assert.NotContains(t, rec.Body.String(), "nope")

	_, err := store.Get(context.Background(), testShop)
	assert.ErrorIs(t, err, credentials.ErrNotFound)
}

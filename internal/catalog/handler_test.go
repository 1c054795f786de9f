package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"raindoor/pkg/credentials"
)

func newTestRouter(t *testing.T, up *fakeUpstream, store credentials.Store) http.Handler {
	t.Helper()
	h := NewHandler(zap.NewNop().Sugar(), newTestExporter(t, up, store, 0))
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func TestExportAPIRequiresInstalledShop(t *testing.T) {
	router := newTestRouter(t, newFakeUpstream(t, nil), credentials.NewMemoryStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export?shop="+testShop, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestExportAPIRejectsInvalidShop(t *testing.T) {
	router := newTestRouter(t, newFakeUpstream(t, nil), credentials.NewMemoryStore())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export?shop=evil.example.com", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportAPIReturnsEnvelope(t *testing.T) {
	up := newFakeUpstream(t, []fakePage{{products: 2, hasNext: false}})
	router := newTestRouter(t, up, seededStore(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export?shop="+testShop, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Success  bool      `json:"success"`
		ID       string    `json:"id"`
		Count    int       `json:"count"`
		Products []Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.ID)
	assert.Equal(t, 2, env.Count)
	require.Len(t, env.Products, 2)
	assert.Equal(t, "Product 0", env.Products[0].Title)
}

func TestExportAPIUpstreamFailure(t *testing.T) {
	up := newFakeUpstream(t, []fakePage{{status: http.StatusBadGateway}})
	router := newTestRouter(t, up, seededStore(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export?shop="+testShop, nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom", "upstream body must not leak")
}

func TestExportAPIFilterProjection(t *testing.T) {
	up := newFakeUpstream(t, []fakePage{{products: 3, hasNext: false}})
	router := newTestRouter(t, up, seededStore(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export?shop="+testShop+"&filter=%5B%5D.title", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Count    int      `json:"count"`
		Products []string `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, 3, env.Count)
	assert.Equal(t, []string{"Product 0", "Product 1", "Product 2"}, env.Products)
}

func TestExportAPIInvalidFilterRejectedBeforeUpstream(t *testing.T) {
	up := newFakeUpstream(t, nil)
	router := newTestRouter(t, up, seededStore(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export?shop="+testShop+"&filter=%5B%5B", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, up.calls)
}

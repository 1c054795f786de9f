package home

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raindoor/pkg/credentials"
)

func TestStatusReportsConnection(t *testing.T) {
	store := credentials.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), credentials.Credential{Shop: "a.myshopify.com", AccessToken: "tok"}))

	r := chi.NewRouter()
	NewHandler(store).Register(r)

	cases := map[string]bool{
		"/?shop=a.myshopify.com": true,
		"/?shop=b.myshopify.com": false,
		"/":                      false,
	}
	for target, want := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, rec.Code, target)

		var body struct {
			Connected bool   `json:"connected"`
			Shop      string `json:"shop"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, want, body.Connected, target)
	}
}

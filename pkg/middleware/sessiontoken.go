// pkg/middleware/sessiontoken.go
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// SessionToken validates Shopify App Bridge session tokens on /api routes.
// Session tokens are HS256 JWTs signed with the app's shared secret; aud is
// the app's API key and dest names the shop the token was minted for.
func SessionToken(apiKey, apiSecret string, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !required || !strings.HasPrefix(r.URL.Path, "/api/") {
				next.ServeHTTP(w, r)
				return
			}
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			raw := strings.TrimSpace(authz[len("bearer "):])
			tok, err := jwt.Parse([]byte(raw),
				jwt.WithKey(jwa.HS256, []byte(apiSecret)),
				jwt.WithValidate(true),
				jwt.WithAudience(apiKey),
			)
			if err != nil {
				http.Error(w, "invalid session token", http.StatusUnauthorized)
				return
			}
			// dest must match the shop the caller claims to act for
			if shop := r.URL.Query().Get("shop"); shop != "" {
				dest, _ := tok.Get("dest")
				ds, _ := dest.(string)
				if u, err := url.Parse(ds); err != nil || !strings.EqualFold(u.Host, shop) {
					http.Error(w, "session token shop mismatch", http.StatusUnauthorized)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

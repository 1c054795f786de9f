// pkg/middleware/frameancestors.go
package middleware

import (
	"fmt"
	"net/http"
)

// FrameAncestors sets the Content-Security-Policy frame-ancestors directive
// so the app can be embedded by the requesting shop's admin and nowhere else.
func FrameAncestors() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if shop := r.URL.Query().Get("shop"); shop != "" {
				w.Header().Set("Content-Security-Policy",
					fmt.Sprintf("frame-ancestors https://%s https://admin.shopify.com;", shop))
			}
			next.ServeHTTP(w, r)
		})
	}
}

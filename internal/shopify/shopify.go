// Package shopify holds the outbound surface to the storefront platform:
// shop domain validation, the OAuth token exchange and the Admin GraphQL
// client. Base URLs are overridable so tests can point at local fakes.
package shopify

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// ValidShopDomain reports whether shop looks like a myshopify.com store
// domain. Rejects anything that could smuggle a path or break out of the
// URLs we build from it.
func ValidShopDomain(shop string) bool {
	if !strings.HasSuffix(shop, ".myshopify.com") {
		return false
	}
	if strings.ContainsAny(shop, "/ ?#@:") {
		return false
	}
	return len(shop) >= len("a.myshopify.com")
}

// BaseURL returns the https base for a shop's admin endpoints.
func BaseURL(shop string) string { return "https://" + shop }

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

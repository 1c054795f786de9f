package problems

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
)

// Problem slugs for every failure the service can surface. Response bodies
// stay generic: no secrets, no upstream error bodies.
const (
	MissingParameter = "missing-parameter"
	StateMismatch    = "state-mismatch"
	SignatureInvalid = "signature-invalid"
	ExchangeFailed   = "exchange-failed"
	Unauthorized     = "unauthorized"
	UpstreamFailure  = "upstream-failure"
	ExportCancelled  = "export-cancelled"
	InvalidFilter    = "invalid-filter"
)

// Base returns the base URL for problem type identifiers.
// Order of precedence:
// 1. PROBLEM_BASE_URL (exact base, e.g. https://mydomain.com/problems)
// 2. BASE_PUBLIC_URL + "/problems" (if set)
// 3. https://example.com/problems (fallback)
func Base() string {
	if b := os.Getenv("PROBLEM_BASE_URL"); b != "" {
		return strings.TrimRight(b, "/")
	}
	if b := os.Getenv("BASE_PUBLIC_URL"); b != "" {
		return strings.TrimRight(b, "/") + "/problems"
	}
	return "https://example.com/problems"
}

// Type builds a full problem type URL for the given slug.
func Type(slug string) string { return Base() + "/" + slug }

// Write emits an RFC 7807 application/problem+json response.
func Write(w http.ResponseWriter, status int, slug, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   Type(slug),
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}

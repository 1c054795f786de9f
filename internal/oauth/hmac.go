package oauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
)

// VerifyHMAC checks the signature Shopify attaches to callback requests.
// The canonical message is every query parameter except hmac/signature,
// keys sorted, multi-values comma-joined, pairs joined with "&". A mismatch
// is a normal negative verdict, never an error.
func VerifyHMAC(params url.Values, secret string) bool {
	provided := params.Get("hmac")
	if provided == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonicalMessage(params)))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(provided)))
}

func canonicalMessage(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "hmac" || k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+strings.Join(params[k], ","))
	}
	return strings.Join(parts, "&")
}

// SignParams computes the hex signature over the canonical message.
// Exposed for issuing test callbacks and future webhook verification.
func SignParams(params url.Values, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonicalMessage(params)))
	return hex.EncodeToString(mac.Sum(nil))
}

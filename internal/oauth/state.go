package oauth

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"
)

const stateCookieName = "raindoor_oauth_state"

// IssueState returns a fresh anti-forgery token: 32 random bytes, base64url.
func IssueState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// VerifyState reports whether the callback returned the token we issued.
// Constant-time; empty values never match.
func VerifyState(issued, received string) bool {
	if issued == "" || received == "" {
		return false
	}
	return hmac.Equal([]byte(issued), []byte(received))
}

// setStateCookie binds the state token to the browser session for the
// redirect round trip. SameSite=None because the callback arrives as a
// cross-site navigation from the platform's domain.
func setStateCookie(w http.ResponseWriter, state string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// clearStateCookie drops the cookie so a callback cannot be replayed
// against a stale token.
func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func stateFromCookie(r *http.Request) string {
	c, err := r.Cookie(stateCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

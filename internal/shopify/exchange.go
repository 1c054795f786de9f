package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TokenExchanger swaps an authorization code for a permanent access token.
type TokenExchanger struct {
	HTTP *http.Client
	// BaseURL overrides the per-shop https base (tests).
	BaseURL func(shop string) string
}

func NewTokenExchanger() *TokenExchanger {
	return &TokenExchanger{HTTP: newHTTPClient(15 * time.Second), BaseURL: BaseURL}
}

type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Code         string `json:"code"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Scope       string `json:"scope"`
}

// Exchange submits the code to /admin/oauth/access_token and returns the
// access token. Any transport error, non-2xx status or malformed body is an
// error; the upstream response body is never propagated to callers.
func (e *TokenExchanger) Exchange(ctx context.Context, shop, clientID, clientSecret, code string) (string, error) {
	body, err := json.Marshal(tokenRequest{ClientID: clientID, ClientSecret: clientSecret, Code: code})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL(shop)+"/admin/oauth/access_token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("token exchange status %d", resp.StatusCode)
	}
	var tr tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&tr); err != nil {
		return "", fmt.Errorf("token exchange decode: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token exchange returned empty access_token")
	}
	return tr.AccessToken, nil
}

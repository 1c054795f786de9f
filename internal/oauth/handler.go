// internal/oauth/handler.go
package oauth

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"raindoor/internal/shopify"
	"raindoor/pkg/config"
	"raindoor/pkg/credentials"
	"raindoor/pkg/metrics"
	"raindoor/pkg/problems"
)

// Handler coordinates the install handshake: issue state and redirect to
// the platform's authorize page, then validate the callback and trade the
// authorization code for a credential.
type Handler struct {
	cfg       config.Config
	log       *zap.SugaredLogger
	store     credentials.Store
	exchanger *shopify.TokenExchanger
	// AuthorizeBaseURL overrides the per-shop https base (tests).
	AuthorizeBaseURL func(shop string) string
}

func NewHandler(cfg config.Config, log *zap.SugaredLogger, store credentials.Store) *Handler {
	return &Handler{
		cfg:              cfg,
		log:              log,
		store:            store,
		exchanger:        shopify.NewTokenExchanger(),
		AuthorizeBaseURL: shopify.BaseURL,
	}
}

// Exchanger exposes the token exchange client so tests can repoint it.
func (h *Handler) Exchanger() *shopify.TokenExchanger { return h.exchanger }

func (h *Handler) Register(r chi.Router) {
	r.Get("/auth", h.begin)
	r.Get("/auth/callback", h.callback)
}

// begin starts the handshake. The response drives a top-frame navigation
// via script because the platform refuses to be a redirect target inside
// an iframe.
func (h *Handler) begin(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")
	if !shopify.ValidShopDomain(shop) {
		problems.Write(w, http.StatusBadRequest, problems.MissingParameter,
			"missing or invalid shop parameter (expected your-store.myshopify.com)")
		return
	}

	state, err := IssueState()
	if err != nil {
		h.log.Errorw("state issue", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	setStateCookie(w, state, h.cfg.StateTTL)

	q := url.Values{}
	q.Set("client_id", h.cfg.APIKey)
	q.Set("scope", h.cfg.Scopes)
	q.Set("redirect_uri", strings.TrimRight(h.cfg.BasePublicURL, "/")+"/auth/callback")
	q.Set("state", state)
	installURL := h.AuthorizeBaseURL(shop) + "/admin/oauth/authorize?" + q.Encode()

	h.log.Infow("handshake started", "shop", shop)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<script type="text/javascript">window.top.location.href = %q;</script>`, installURL)
}

// callback validates the returning redirect: state first (origin binding),
// then signature, then the code exchange. The state cookie is cleared on
// every attempt so it cannot be replayed.
func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	shop := params.Get("shop")
	code := params.Get("code")
	hmacParam := params.Get("hmac")
	received := params.Get("state")

	issued := stateFromCookie(r)
	clearStateCookie(w)

	if !VerifyState(issued, received) {
		metrics.Handshakes.WithLabelValues("state_mismatch").Inc()
		h.log.Warnw("handshake state mismatch", "shop", shop)
		problems.Write(w, http.StatusForbidden, problems.StateMismatch, "request origin could not be verified")
		return
	}
	if !shopify.ValidShopDomain(shop) || code == "" || hmacParam == "" {
		metrics.Handshakes.WithLabelValues("missing_parameter").Inc()
		problems.Write(w, http.StatusBadRequest, problems.MissingParameter, "missing required callback parameters")
		return
	}
	if !VerifyHMAC(params, h.cfg.APISecret) {
		metrics.Handshakes.WithLabelValues("signature_invalid").Inc()
		h.log.Warnw("handshake signature invalid", "shop", shop)
		problems.Write(w, http.StatusBadRequest, problems.SignatureInvalid, "callback signature validation failed")
		return
	}

	token, err := h.exchanger.Exchange(r.Context(), shop, h.cfg.APIKey, h.cfg.APISecret, code)
	if err != nil {
		metrics.Handshakes.WithLabelValues("exchange_failed").Inc()
		h.log.Errorw("token exchange failed", "shop", shop, "err", err)
		problems.Write(w, http.StatusInternalServerError, problems.ExchangeFailed, "could not obtain access token")
		return
	}

	cred := credentials.Credential{Shop: shop, AccessToken: token, InstalledAt: time.Now().UTC()}
	if err := h.store.Put(r.Context(), cred); err != nil {
		metrics.Handshakes.WithLabelValues("exchange_failed").Inc()
		h.log.Errorw("credential store write", "shop", shop, "err", err)
		problems.Write(w, http.StatusInternalServerError, problems.ExchangeFailed, "could not persist credential")
		return
	}

	metrics.Handshakes.WithLabelValues("installed").Inc()
	h.log.Infow("app installed", "shop", shop)
	http.Redirect(w, r, "/?shop="+url.QueryEscape(shop), http.StatusFound)
}

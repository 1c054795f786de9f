// internal/catalog/handler.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmespath/go-jmespath"
	"go.uber.org/zap"

	"raindoor/internal/shopify"
	"raindoor/pkg/metrics"
	"raindoor/pkg/problems"
)

// Handler serves the export API.
type Handler struct {
	log      *zap.SugaredLogger
	exporter *Exporter
}

func NewHandler(log *zap.SugaredLogger, exporter *Exporter) *Handler {
	return &Handler{log: log, exporter: exporter}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/api/export", h.export)
}

type exportEnvelope struct {
	Success  bool   `json:"success"`
	ID       string `json:"id"`
	Count    int    `json:"count"`
	Products any    `json:"products"`
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	shop := r.URL.Query().Get("shop")
	if !shopify.ValidShopDomain(shop) {
		problems.Write(w, http.StatusBadRequest, problems.MissingParameter,
			"missing or invalid shop parameter")
		return
	}

	// validate the optional projection before doing any upstream work
	var filter *jmespath.JMESPath
	if expr := r.URL.Query().Get("filter"); expr != "" {
		jp, err := jmespath.Compile(expr)
		if err != nil {
			problems.Write(w, http.StatusBadRequest, problems.InvalidFilter, "invalid filter expression")
			return
		}
		filter = jp
	}

	products, err := h.exporter.Export(r.Context(), shop)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnauthorized):
			metrics.Exports.WithLabelValues("unauthorized").Inc()
			problems.Write(w, http.StatusUnauthorized, problems.Unauthorized, "app is not installed for this shop")
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			metrics.Exports.WithLabelValues("cancelled").Inc()
			h.log.Warnw("export cancelled", "shop", shop)
			problems.Write(w, http.StatusServiceUnavailable, problems.ExportCancelled, "export was cancelled")
		default:
			metrics.Exports.WithLabelValues("upstream_failure").Inc()
			h.log.Errorw("export failed", "shop", shop, "err", err)
			problems.Write(w, http.StatusBadGateway, problems.UpstreamFailure, "could not fetch products")
		}
		return
	}

	var payload any = products
	if filter != nil {
		payload, err = applyFilter(filter, products)
		if err != nil {
			problems.Write(w, http.StatusBadRequest, problems.InvalidFilter, "filter expression failed to evaluate")
			return
		}
	}

	metrics.Exports.WithLabelValues("success").Inc()
	metrics.ProductsExported.Add(float64(len(products)))
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(exportEnvelope{
		Success:  true,
		ID:       uuid.NewString(),
		Count:    len(products),
		Products: payload,
	})
}

// applyFilter projects the product list through a JMESPath expression.
// The list round-trips through JSON because jmespath evaluates over
// generic maps and slices.
func applyFilter(jp *jmespath.JMESPath, products []Product) (any, error) {
	b, err := json.Marshal(products)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return nil, err
	}
	return jp.Search(generic)
}

// pkg/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Handshakes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raindoor_handshakes_total",
		Help: "OAuth handshake attempts by outcome.",
	}, []string{"outcome"})

	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "raindoor_exports_total",
		Help: "Catalog exports by outcome.",
	}, []string{"outcome"})

	UpstreamPages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raindoor_upstream_pages_total",
		Help: "Product pages fetched from the storefront API.",
	})

	ProductsExported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "raindoor_products_exported_total",
		Help: "Products returned across successful exports.",
	})
)

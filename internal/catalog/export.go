// internal/catalog/export.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"raindoor/internal/shopify"
	"raindoor/pkg/credentials"
	"raindoor/pkg/metrics"
)

// productsQuery walks the products connection one page at a time, 250
// items per page. The cursor is the edge cursor of the previous page's
// last item.
const productsQuery = `
query getProducts($cursor: String) {
  products(first: 250, after: $cursor) {
    pageInfo { hasNextPage }
    edges {
      cursor
      node {
        id
        title
        handle
        descriptionHtml
        vendor
        productType
        status
        tags
        variants(first: 100) {
          edges { node { id title sku price inventoryQuantity barcode } }
        }
        images(first: 10) {
          edges { node { url altText } }
        }
      }
    }
  }
}`

var (
	// ErrUnauthorized means no credential exists for the shop. The export
	// fails closed rather than calling upstream anonymously.
	ErrUnauthorized = errors.New("no credential for shop")
	// ErrUpstream covers any transport or remote-side failure. The export is
	// all-or-nothing: pages fetched before the failure are discarded.
	ErrUpstream = errors.New("upstream failure")
)

// Exporter aggregates a shop's full catalog by sequential cursor pagination.
type Exporter struct {
	log    *zap.SugaredLogger
	store  credentials.Store
	client *shopify.GraphQLClient

	// maxPages bounds the cursor walk so a misbehaving upstream cannot
	// spin the loop forever.
	maxPages    int
	pageTimeout time.Duration
}

func NewExporter(log *zap.SugaredLogger, store credentials.Store, client *shopify.GraphQLClient, maxPages int, pageTimeout time.Duration) *Exporter {
	if maxPages <= 0 {
		maxPages = 200
	}
	if pageTimeout <= 0 {
		pageTimeout = 30 * time.Second
	}
	return &Exporter{log: log, store: store, client: client, maxPages: maxPages, pageTimeout: pageTimeout}
}

// Export fetches every product page for the shop and concatenates them in
// the order received. Page fetches are strictly sequential: each cursor
// depends on the previous page. Cancellation of ctx surfaces as a context
// error, everything else upstream-related wraps ErrUpstream.
func (e *Exporter) Export(ctx context.Context, shop string) ([]Product, error) {
	cred, err := e.store.Get(ctx, shop)
	if err != nil {
		if errors.Is(err, credentials.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("credential lookup: %w", err)
	}

	all := []Product{}
	var cursor *string
	for page := 0; ; page++ {
		if page >= e.maxPages {
			return nil, fmt.Errorf("%w: page bound exceeded after %d pages", ErrUpstream, page)
		}

		var data productsData
		vars := map[string]any{"cursor": cursor}
		pageCtx, cancel := context.WithTimeout(ctx, e.pageTimeout)
		err := e.client.Query(pageCtx, shop, cred.AccessToken, shopify.GraphQLRequest{Query: productsQuery, Variables: vars}, &data)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: page %d: %v", ErrUpstream, page, err)
		}
		metrics.UpstreamPages.Inc()

		conn := data.Products
		for _, edge := range conn.Edges {
			all = append(all, edge.Node.flatten())
		}
		if !conn.PageInfo.HasNextPage {
			break
		}
		// a continuing page with no items can never advance the cursor
		if len(conn.Edges) == 0 {
			return nil, fmt.Errorf("%w: empty page %d with more pages remaining", ErrUpstream, page)
		}
		last := conn.Edges[len(conn.Edges)-1].Cursor
		cursor = &last
	}

	e.log.Infow("export complete", "shop", shop, "products", len(all))
	return all, nil
}

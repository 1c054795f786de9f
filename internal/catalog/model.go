package catalog

// Product is one unit of the export artifact: a point-in-time snapshot of
// the remote product, flattened from the GraphQL connection shape.
type Product struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Handle          string    `json:"handle"`
	DescriptionHTML string    `json:"descriptionHtml"`
	Vendor          string    `json:"vendor"`
	ProductType     string    `json:"productType"`
	Status          string    `json:"status"`
	Tags            []string  `json:"tags"`
	Variants        []Variant `json:"variants"`
	Images          []Image   `json:"images"`
}

type Variant struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	SKU               string `json:"sku"`
	Price             string `json:"price"`
	InventoryQuantity int    `json:"inventoryQuantity"`
	Barcode           string `json:"barcode"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

// Wire shapes for the Admin API products connection.

type productsData struct {
	Products productsConnection `json:"products"`
}

type productsConnection struct {
	PageInfo pageInfo      `json:"pageInfo"`
	Edges    []productEdge `json:"edges"`
}

type pageInfo struct {
	HasNextPage bool `json:"hasNextPage"`
}

type productEdge struct {
	Cursor string      `json:"cursor"`
	Node   productNode `json:"node"`
}

type productNode struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Handle          string       `json:"handle"`
	DescriptionHTML string       `json:"descriptionHtml"`
	Vendor          string       `json:"vendor"`
	ProductType     string       `json:"productType"`
	Status          string       `json:"status"`
	Tags            []string     `json:"tags"`
	Variants        variantsConn `json:"variants"`
	Images          imagesConn   `json:"images"`
}

type variantsConn struct {
	Edges []struct {
		Node Variant `json:"node"`
	} `json:"edges"`
}

type imagesConn struct {
	Edges []struct {
		Node Image `json:"node"`
	} `json:"edges"`
}

// flatten converts a node into the export Product, collapsing the edge
// wrappers and preserving edge order.
func (n productNode) flatten() Product {
	p := Product{
		ID:              n.ID,
		Title:           n.Title,
		Handle:          n.Handle,
		DescriptionHTML: n.DescriptionHTML,
		Vendor:          n.Vendor,
		ProductType:     n.ProductType,
		Status:          n.Status,
		Tags:            []string{},
		Variants:        make([]Variant, 0, len(n.Variants.Edges)),
		Images:          make([]Image, 0, len(n.Images.Edges)),
	}
	if n.Tags != nil {
		p.Tags = n.Tags
	}
	for _, e := range n.Variants.Edges {
		p.Variants = append(p.Variants, e.Node)
	}
	for _, e := range n.Images.Edges {
		p.Images = append(p.Images, e.Node)
	}
	return p
}

package model

import "github.com/shopspring/decimal"

// ProductImage is one gallery entry of a normalized product.
type ProductImage struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
}

// NormalizedProduct is the canonical, transient form a vendor payload is
// reduced to before it reaches the store. Numeric fields are pointers so that
// "vendor did not supply this" is distinguishable from zero.
type NormalizedProduct struct {
	Platform  string
	ProductID string
	URL       string
	Title     string

	Price         *decimal.Decimal
	OriginalPrice *decimal.Decimal
	Currency      string

	Rating      *float64
	ReviewCount *int
	SoldCount   *int

	SellerID    *string
	SellerName  *string
	Category    *string
	Description *string

	// Images holds the gallery in vendor order. At most one entry carries
	// IsPrimary; the normalizer guarantees exactly one when the gallery is
	// non-empty.
	Images []ProductImage

	InStock bool
}

// PrimaryImage returns the image flagged primary, falling back to the first
// gallery entry. Nil when the product has no images.
func (p *NormalizedProduct) PrimaryImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}

// ImageURLs flattens the gallery for persistence.
func (p *NormalizedProduct) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.URL)
	}
	return urls
}

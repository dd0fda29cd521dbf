package normalizer

import "regexp"

var amazonASINFromURL = regexp.MustCompile(`/dp/([A-Z0-9]{10})`)

// amazonSpec covers payloads produced from Amazon search and detail pages.
// Key ordering reflects what successive extension versions have emitted —
// do not reorder without checking stored collection runs.
func amazonSpec() *platformSpec {
	return &platformSpec{
		platform:        "amazon",
		defaultCurrency: "USD",
		placeholder:     "Amazon Product %s",
		productURL: func(id string) string {
			return "https://www.amazon.com/dp/" + id
		},
		idFromURL: amazonASINFromURL,

		id:            fieldKeys{"asin", "product_id", "id"},
		title:         fieldKeys{"title", "name", "product_title"},
		url:           fieldKeys{"url", "link", "product_url"},
		price:         fieldKeys{"price", "current_price", "priceAmount", "price_amount"},
		originalPrice: fieldKeys{"original_price", "list_price", "was_price"},
		currency:      fieldKeys{"currency", "currency_code"},
		rating:        fieldKeys{"rating", "stars", "average_rating"},
		reviewCount:   fieldKeys{"review_count", "reviews_count", "ratings_total"},
		soldCount:     fieldKeys{"sold_count", "bought_past_month"},
		sellerID:      fieldKeys{"seller_id", "merchant_id"},
		sellerName:    fieldKeys{"seller", "seller_name", "sold_by"},
		category:      fieldKeys{"category", "category_path", "department"},
		description:   fieldKeys{"description", "product_description"},
		mainImage:     fieldKeys{"main_image", "landing_image", "image"},
		gallery:       fieldKeys{"images", "gallery", "image_urls"},
		inStock:       fieldKeys{"in_stock", "availability", "stock_status"},
	}
}

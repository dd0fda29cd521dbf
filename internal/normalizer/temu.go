package normalizer

import "regexp"

var temuIDFromURL = regexp.MustCompile(`/(\d+)\.html`)

// temuSpec covers payloads from Temu goods pages. Temu frequently encodes
// prices in minor units, so the cents heuristic fires often here; raise or
// lower the platform threshold via Config.CentsThreshold["temu"].
func temuSpec() *platformSpec {
	return &platformSpec{
		platform:        "temu",
		defaultCurrency: "GBP",
		placeholder:     "Temu Product %s",
		productURL: func(id string) string {
			return "https://www.temu.com/" + id + ".html"
		},
		idFromURL: temuIDFromURL,

		id:            fieldKeys{"goods_id", "goodsId", "product_id", "id"},
		title:         fieldKeys{"goods_name", "goodsName", "title", "name"},
		url:           fieldKeys{"url", "link", "goods_url"},
		price:         fieldKeys{"price", "salePrice", "sale_price", "current_price"},
		originalPrice: fieldKeys{"original_price", "marketPrice", "market_price"},
		currency:      fieldKeys{"currency", "currency_code"},
		rating:        fieldKeys{"rating", "goods_score", "score"},
		reviewCount:   fieldKeys{"review_count", "comment_count", "review_num"},
		soldCount:     fieldKeys{"sold_count", "soldCount", "sales_num", "sold_quantity"},
		sellerID:      fieldKeys{"seller_id", "mall_id"},
		sellerName:    fieldKeys{"seller_name", "mall_name", "seller"},
		category:      fieldKeys{"category", "cat_name", "category_path"},
		description:   fieldKeys{"description", "goods_desc"},
		mainImage:     fieldKeys{"thumb", "main_image", "goods_thumb", "image"},
		gallery:       fieldKeys{"gallery", "images", "image_urls"},
		inStock:       fieldKeys{"in_stock", "stock_status", "availability"},
	}
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Page     int      `form:"page,default=1"       validate:"min=1"`
	PageSize int      `form:"page_size,default=50" validate:"min=1,max=200"`
	MinPrice *float64 `form:"min_price"            validate:"omitempty,min=0"`
	MaxPrice *float64 `form:"max_price"            validate:"omitempty,min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// PriceHistoryItem is one row of a product's price trajectory.
type PriceHistoryItem struct {
	Price      decimal.Decimal `json:"price"`
	SoldCount  *int            `json:"sold_count"`
	RecordedAt time.Time       `json:"recorded_at"`
}

type ProductResponse struct {
	ID            string           `json:"id"`
	Platform      string           `json:"platform"`
	ProductID     string           `json:"product_id"`
	Title         string           `json:"title"`
	URL           string           `json:"url"`
	CurrentPrice  *decimal.Decimal `json:"current_price"`
	OriginalPrice *decimal.Decimal `json:"original_price"`
	Currency      string           `json:"currency"`
	SoldCount     *int             `json:"sold_count"`
	Rating        *float64         `json:"rating"`
	ReviewCount   *int             `json:"review_count"`
	SellerID      *string          `json:"seller_id"`
	SellerName    *string          `json:"seller_name"`
	Category      *string          `json:"category"`
	Description   *string          `json:"description"`
	MainImage     *string          `json:"main_image"`
	Images        []string         `json:"images"`
	InStock       bool             `json:"in_stock"`
	FirstSeenAt   time.Time        `json:"first_seen_at"`
	LastUpdatedAt time.Time        `json:"last_updated_at"`

	// PriceHistory is always present — empty unless include_history was
	// requested, so the response shape stays stable.
	PriceHistory []PriceHistoryItem `json:"price_history"`
}

type ProductListResponse struct {
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Products []ProductResponse `json:"products"`
}

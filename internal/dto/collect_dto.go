package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CollectProductRequest is a single raw vendor payload pushed by the browser
// extension or a scraper run. Product is intentionally loose — field names
// vary by vendor and extension version; the normalizer resolves them.
type CollectProductRequest struct {
	Platform string         `json:"platform" validate:"required,oneof=amazon temu"`
	Product  map[string]any `json:"product"  validate:"required"`
	PageType string         `json:"page_type"`
	PageURL  string         `json:"page_url"`
}

// CollectBatchRequest is an ordered batch of raw payloads from one page.
type CollectBatchRequest struct {
	Platform string           `json:"platform" validate:"required,oneof=amazon temu"`
	Products []map[string]any `json:"products" validate:"required,min=1"`
	PageType string           `json:"page_type"`
	PageURL  string           `json:"page_url"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CollectResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ProductID string `json:"product_id"`
	IsNew     bool   `json:"is_new"`
}

type BatchCollectResponse struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	SavedCount int      `json:"saved_count"`
	Errors     []string `json:"errors"`
}

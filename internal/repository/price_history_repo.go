package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/xsha511/brightdata-scraper/internal/model"
)

type PriceHistoryRepository interface {
	// CreateTx appends one history entry inside the upsert transaction.
	CreateTx(tx *gorm.DB, h *model.PriceHistory) error

	ListByProductID(ctx context.Context, productID string) ([]model.PriceHistory, error)
}

type priceHistoryRepo struct{ db *gorm.DB }

func NewPriceHistoryRepository(db *gorm.DB) PriceHistoryRepository {
	return &priceHistoryRepo{db: db}
}

func (r *priceHistoryRepo) CreateTx(tx *gorm.DB, h *model.PriceHistory) error {
	return tx.Create(h).Error
}

// ListByProductID returns all price-change records for one product, ordered
// newest-first (append-only table, so this is the inverse of insert order).
func (r *priceHistoryRepo) ListByProductID(ctx context.Context, productID string) ([]model.PriceHistory, error) {
	var rows []model.PriceHistory
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("recorded_at DESC").
		Find(&rows).Error
	return rows, err
}

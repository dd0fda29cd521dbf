package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xsha511/brightdata-scraper/internal/dto"
	"github.com/xsha511/brightdata-scraper/internal/model"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	FindByProductID(ctx context.Context, productID string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)

	// Used inside the upsert transaction — callers must pass the tx instance.
	// FindByProductIDForUpdate locks the row so that concurrent upserts for
	// the same natural key serialize instead of racing.
	FindByProductIDForUpdate(tx *gorm.DB, productID string) (*model.Product, error)
	CreateTx(tx *gorm.DB, p *model.Product) error
	UpdateTx(tx *gorm.DB, p *model.Product) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) FindByProductID(ctx context.Context, productID string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindByProductIDForUpdate(tx *gorm.DB, productID string) (*model.Product, error) {
	var p model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) UpdateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Save(p).Error
}

// List applies the min/max price bounds as a conjunction on current_price.
// Rows with no price never match a bound (SQL NULL comparison), which is the
// intended exclusion. Ordering is newest-updated first with the natural key
// as a deterministic tie-break.
func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	if filter.MinPrice != nil {
		q = q.Where("current_price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("current_price <= ?", *filter.MaxPrice)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := q.Order("last_updated_at DESC, product_id ASC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) DB() *gorm.DB { return r.db }

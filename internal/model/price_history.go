package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceHistory records each observed price change of a product.
// Rows are immutable — never updated or deleted. ProductID references the
// natural key by value; the product row may be created in the same
// transaction, so no FK constraint is enforced.
type PriceHistory struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID  string          `gorm:"index;not null"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SoldCount  *int
	RecordedAt time.Time `gorm:"index;not null"`
}

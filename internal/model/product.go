package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the durable record for one marketplace listing. ProductID is the
// platform-native identifier (ASIN, goods_id, …) and is the natural key across
// the whole pipeline; the surrogate ID is assigned once at first insert and
// never reused. Rows are owned by the store layer and mutated only through
// the upsert transaction.
type Product struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Platform  string    `gorm:"index;not null"`
	ProductID string    `gorm:"uniqueIndex;not null"`
	URL       string    `gorm:"not null"`
	Title     string    `gorm:"not null"`

	CurrentPrice  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	OriginalPrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Currency      string           `gorm:"not null;default:'USD'"`

	SoldCount   *int
	Rating      *float64
	ReviewCount *int

	SellerID    *string
	SellerName  *string
	Category    *string
	Description *string

	// MainImage is the current primary image; Images holds the full gallery
	// in vendor order. Primary-ness of historical galleries is not persisted.
	MainImage *string
	Images    []string `gorm:"serializer:json"`

	InStock bool `gorm:"not null;default:true"`

	FirstSeenAt   time.Time `gorm:"not null"`
	LastUpdatedAt time.Time `gorm:"index;not null"`
}

package model

import (
	"time"

	"github.com/google/uuid"
)

// CollectLog is an informational audit row written once per collect call.
// It has no behavioral role in the pipeline.
type CollectLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PageType      string
	PageURL       string
	ProductsCount int
	CreatedAt     time.Time
}

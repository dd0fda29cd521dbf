package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/xsha511/brightdata-scraper/internal/model"
)

type CollectLogRepository interface {
	Create(ctx context.Context, l *model.CollectLog) error
}

type collectLogRepo struct{ db *gorm.DB }

func NewCollectLogRepository(db *gorm.DB) CollectLogRepository {
	return &collectLogRepo{db: db}
}

func (r *collectLogRepo) Create(ctx context.Context, l *model.CollectLog) error {
	return r.db.WithContext(ctx).Create(l).Error
}

package worker

// collect_log_worker.go
// Persists collection-audit rows from QueueCollectLog. The audit log is
// informational only, so it is written off the request path.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/xsha511/brightdata-scraper/internal/model"
	"github.com/xsha511/brightdata-scraper/internal/repository"
)

// CollectLogJob is the job envelope sent to QueueCollectLog.
type CollectLogJob struct {
	PageType      string `json:"page_type"`
	PageURL       string `json:"page_url"`
	ProductsCount int    `json:"products_count"`
}

type CollectLogWorker struct {
	repo repository.CollectLogRepository
}

func NewCollectLogWorker(repo repository.CollectLogRepository) *CollectLogWorker {
	return &CollectLogWorker{repo: repo}
}

func (w *CollectLogWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var job CollectLogJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return fmt.Errorf("collect_log_worker: invalid payload: %w", err)
	}

	if err := w.repo.Create(ctx, &model.CollectLog{
		PageType:      job.PageType,
		PageURL:       job.PageURL,
		ProductsCount: job.ProductsCount,
	}); err != nil {
		return fmt.Errorf("collect_log_worker: insert: %w", err)
	}

	log.Debug().
		Str("page_type", job.PageType).
		Int("products_count", job.ProductsCount).
		Msg("collect log recorded")
	return nil
}

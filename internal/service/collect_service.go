package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/xsha511/brightdata-scraper/internal/dto"
	"github.com/xsha511/brightdata-scraper/internal/normalizer"
	"github.com/xsha511/brightdata-scraper/internal/worker"
)

// CollectService is the inbound collection surface: it normalizes raw vendor
// payloads and drives them through the product store.
type CollectService interface {
	CollectProduct(ctx context.Context, req dto.CollectProductRequest) (*dto.CollectResponse, error)
	CollectBatch(ctx context.Context, req dto.CollectBatchRequest) *dto.BatchCollectResponse
}

type collectService struct {
	norm       *normalizer.Normalizer
	products   ProductService
	dispatcher *worker.Dispatcher

	// batchWorkers bounds internal concurrency of batch submissions.
	batchWorkers int
}

func NewCollectService(norm *normalizer.Normalizer, products ProductService, dispatcher *worker.Dispatcher, batchWorkers int) CollectService {
	if batchWorkers < 1 {
		batchWorkers = 1
	}
	return &collectService{
		norm:         norm,
		products:     products,
		dispatcher:   dispatcher,
		batchWorkers: batchWorkers,
	}
}

func (s *collectService) CollectProduct(ctx context.Context, req dto.CollectProductRequest) (*dto.CollectResponse, error) {
	np, err := s.norm.Normalize(req.Platform, req.Product)
	if err != nil {
		return nil, err
	}

	created, err := s.products.Upsert(ctx, np)
	if err != nil {
		return nil, err
	}

	s.logCollect(ctx, orDefault(req.PageType, "product"), req.PageURL, 1)

	msg := "Product updated"
	if created {
		msg = "Product saved"
	}
	return &dto.CollectResponse{
		Success:   true,
		Message:   msg,
		ProductID: np.ProductID,
		IsNew:     created,
	}, nil
}

// CollectBatch applies items independently with bounded concurrency. One
// item's failure — malformed payload or storage error — is collected and
// reported without aborting its siblings. A caller cancelling mid-flight
// leaves already-committed items committed; each item is its own transaction.
func (s *collectService) CollectBatch(ctx context.Context, req dto.CollectBatchRequest) *dto.BatchCollectResponse {
	type itemResult struct {
		ok     bool
		errMsg string
	}
	results := make([]itemResult, len(req.Products))

	sem := make(chan struct{}, s.batchWorkers)
	var wg sync.WaitGroup
	for i := range req.Products {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, raw map[string]any) {
			defer wg.Done()
			defer func() { <-sem }()

			np, err := s.norm.Normalize(req.Platform, raw)
			if err != nil {
				results[i] = itemResult{errMsg: fmt.Sprintf("item %d: %v", i+1, err)}
				return
			}
			if _, err := s.products.Upsert(ctx, np); err != nil {
				results[i] = itemResult{errMsg: fmt.Sprintf("%s: %v", np.ProductID, err)}
				return
			}
			results[i] = itemResult{ok: true}
		}(i, req.Products[i])
	}
	wg.Wait()

	saved := 0
	errs := make([]string, 0)
	for _, r := range results {
		if r.ok {
			saved++
		} else {
			errs = append(errs, r.errMsg)
		}
	}

	s.logCollect(ctx, orDefault(req.PageType, "batch"), req.PageURL, saved)

	return &dto.BatchCollectResponse{
		Success:    len(errs) == 0,
		Message:    fmt.Sprintf("Saved %d/%d products", saved, len(req.Products)),
		SavedCount: saved,
		Errors:     errs,
	}
}

// logCollect enqueues an audit row off the request path. Best effort: a full
// queue or unavailable Redis never fails the collect call.
func (s *collectService) logCollect(ctx context.Context, pageType, pageURL string, count int) {
	if s.dispatcher == nil {
		return
	}
	job := worker.CollectLogJob{
		PageType:      pageType,
		PageURL:       pageURL,
		ProductsCount: count,
	}
	if err := s.dispatcher.EnqueueCollectLog(ctx, job); err != nil {
		log.Warn().Err(err).Str("page_type", pageType).Msg("failed to enqueue collect log")
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

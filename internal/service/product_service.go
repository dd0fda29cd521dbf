package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/xsha511/brightdata-scraper/internal/dto"
	"github.com/xsha511/brightdata-scraper/internal/model"
	"github.com/xsha511/brightdata-scraper/internal/repository"
	"github.com/xsha511/brightdata-scraper/internal/worker"
)

// ErrNotFound is returned by Get for an unknown product ID. It is a normal
// outcome, not an exception path — handlers map it to 404.
var ErrNotFound = errors.New("product not found")

const (
	// maxUpsertRetries bounds the transparent retry on a lost insert race.
	// The upsert is idempotent per key, so losing the race simply means the
	// row exists now and the next attempt takes the update path.
	maxUpsertRetries = 3

	productCachePrefix = "product:"
	productCacheTTL    = 5 * time.Minute
)

// ProductService is the business logic contract for the product store:
// write-side upsert with price-history tracking and the read-side queries.
type ProductService interface {
	Upsert(ctx context.Context, np *model.NormalizedProduct) (created bool, err error)
	Get(ctx context.Context, productID string, includeHistory bool) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
}

type productService struct {
	repo        repository.ProductRepository
	historyRepo repository.PriceHistoryRepository
	rdb         *redis.Client
	dispatcher  *worker.Dispatcher

	// alertPct enables price-drop alerts when positive: a drop of at least
	// this percentage between consecutive observed prices enqueues an alert.
	alertPct decimal.Decimal
}

func NewProductService(
	repo repository.ProductRepository,
	historyRepo repository.PriceHistoryRepository,
	rdb *redis.Client,
	dispatcher *worker.Dispatcher,
	alertPct float64,
) ProductService {
	return &productService{
		repo:        repo,
		historyRepo: historyRepo,
		rdb:         rdb,
		dispatcher:  dispatcher,
		alertPct:    decimal.NewFromFloat(alertPct),
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Upsert ───────────────────────────────────────────────────────────────────
// One atomic unit of work per product: the row and any history entry commit
// together or not at all. Concurrent upserts for the same natural key
// serialize on the row lock; an insert lost to the unique constraint is
// retried as an update and never surfaced to the caller.

func (s *productService) Upsert(ctx context.Context, np *model.NormalizedProduct) (bool, error) {
	var (
		created bool
		alert   *worker.PriceAlertJob
		err     error
	)
	for attempt := 1; ; attempt++ {
		created, alert, err = s.upsertOnce(ctx, np)
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) || attempt >= maxUpsertRetries {
			break
		}
		log.Debug().
			Str("product_id", np.ProductID).
			Int("attempt", attempt).
			Msg("upsert lost insert race, retrying as update")
	}
	if err != nil {
		return false, err
	}

	s.cacheInvalidate(ctx, np.ProductID)

	if alert != nil && s.dispatcher != nil {
		if err := s.dispatcher.EnqueuePriceAlert(ctx, alert); err != nil {
			log.Warn().Err(err).Str("product_id", np.ProductID).Msg("failed to enqueue price alert")
		}
	}
	return created, nil
}

func (s *productService) upsertOnce(ctx context.Context, np *model.NormalizedProduct) (created bool, alert *worker.PriceAlertJob, err error) {
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		now := time.Now().UTC()

		existing, ferr := s.repo.FindByProductIDForUpdate(tx, np.ProductID)
		if ferr != nil {
			if !errors.Is(ferr, gorm.ErrRecordNotFound) {
				return ferr
			}
			p := newProduct(np, now)
			if cerr := s.repo.CreateTx(tx, p); cerr != nil {
				return cerr
			}
			if np.Price != nil {
				if herr := s.appendHistory(tx, np, now); herr != nil {
					return herr
				}
			}
			created = true
			return nil
		}

		prev := existing.CurrentPrice
		applyNormalized(existing, np, now)
		if uerr := s.repo.UpdateTx(tx, existing); uerr != nil {
			return uerr
		}

		// History only when the price is set and actually changed.
		if np.Price != nil && (prev == nil || !prev.Equal(*np.Price)) {
			if herr := s.appendHistory(tx, np, now); herr != nil {
				return herr
			}
			alert = s.priceDropAlert(np, prev)
		}
		return nil
	})
	return created, alert, err
}

func (s *productService) appendHistory(tx *gorm.DB, np *model.NormalizedProduct, now time.Time) error {
	return s.historyRepo.CreateTx(tx, &model.PriceHistory{
		ProductID:  np.ProductID,
		Price:      *np.Price,
		SoldCount:  np.SoldCount,
		RecordedAt: now,
	})
}

func (s *productService) priceDropAlert(np *model.NormalizedProduct, prev *decimal.Decimal) *worker.PriceAlertJob {
	if !s.alertPct.IsPositive() || prev == nil || !prev.IsPositive() || !np.Price.LessThan(*prev) {
		return nil
	}
	drop := prev.Sub(*np.Price).Div(*prev).Mul(decimal.NewFromInt(100))
	if drop.LessThan(s.alertPct) {
		return nil
	}
	return &worker.PriceAlertJob{
		ProductID: np.ProductID,
		Title:     np.Title,
		URL:       np.URL,
		Currency:  np.Currency,
		OldPrice:  *prev,
		NewPrice:  *np.Price,
		DropPct:   drop,
	}
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *productService) Get(ctx context.Context, productID string, includeHistory bool) (*dto.ProductResponse, error) {
	if !includeHistory {
		if cached := s.cacheGet(ctx, productID); cached != nil {
			return cached, nil
		}
	}

	p, err := s.repo.FindByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	resp := productToResponse(p)
	if includeHistory {
		rows, err := s.historyRepo.ListByProductID(ctx, productID)
		if err != nil {
			return nil, err
		}
		for _, h := range rows {
			resp.PriceHistory = append(resp.PriceHistory, dto.PriceHistoryItem{
				Price:      h.Price,
				SoldCount:  h.SoldCount,
				RecordedAt: h.RecordedAt,
			})
		}
	} else {
		s.cacheSet(ctx, productID, resp)
	}
	return resp, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 200 {
		filter.PageSize = 50
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProductListResponse{
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Products: make([]dto.ProductResponse, 0, len(products)),
	}
	for i := range products {
		resp.Products = append(resp.Products, *productToResponse(&products[i]))
	}
	return resp, nil
}

// ── Cache ────────────────────────────────────────────────────────────────────
// Single-product reads without history are cached briefly; every upsert
// invalidates. Cache errors are never surfaced — Redis being down degrades
// to direct DB reads.

func (s *productService) cacheGet(ctx context.Context, productID string) *dto.ProductResponse {
	if s.rdb == nil {
		return nil
	}
	data, err := s.rdb.Get(ctx, productCachePrefix+productID).Bytes()
	if err != nil {
		return nil
	}
	var resp dto.ProductResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil
	}
	return &resp
}

func (s *productService) cacheSet(ctx context.Context, productID string, resp *dto.ProductResponse) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, productCachePrefix+productID, data, productCacheTTL).Err(); err != nil {
		log.Debug().Err(err).Str("product_id", productID).Msg("product cache set failed")
	}
}

func (s *productService) cacheInvalidate(ctx context.Context, productID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, productCachePrefix+productID).Err(); err != nil {
		log.Debug().Err(err).Str("product_id", productID).Msg("product cache invalidation failed")
	}
}

// ── Mapping ──────────────────────────────────────────────────────────────────

func newProduct(np *model.NormalizedProduct, now time.Time) *model.Product {
	p := &model.Product{
		Platform:      np.Platform,
		ProductID:     np.ProductID,
		FirstSeenAt:   now,
		LastUpdatedAt: now,
	}
	applyNormalized(p, np, now)
	return p
}

// applyNormalized overwrites every mutable field from the incoming normalized
// product. ID, ProductID, Platform and FirstSeenAt are never touched here.
func applyNormalized(p *model.Product, np *model.NormalizedProduct, now time.Time) {
	p.URL = np.URL
	p.Title = np.Title
	p.CurrentPrice = np.Price
	p.OriginalPrice = np.OriginalPrice
	p.Currency = np.Currency
	p.SoldCount = np.SoldCount
	p.Rating = np.Rating
	p.ReviewCount = np.ReviewCount
	p.SellerID = np.SellerID
	p.SellerName = np.SellerName
	p.Category = np.Category
	p.Description = np.Description
	p.InStock = np.InStock
	p.Images = np.ImageURLs()
	p.MainImage = nil
	if img := np.PrimaryImage(); img != nil {
		u := img.URL
		p.MainImage = &u
	}
	p.LastUpdatedAt = now
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return &dto.ProductResponse{
		ID:            p.ID.String(),
		Platform:      p.Platform,
		ProductID:     p.ProductID,
		Title:         p.Title,
		URL:           p.URL,
		CurrentPrice:  p.CurrentPrice,
		OriginalPrice: p.OriginalPrice,
		Currency:      p.Currency,
		SoldCount:     p.SoldCount,
		Rating:        p.Rating,
		ReviewCount:   p.ReviewCount,
		SellerID:      p.SellerID,
		SellerName:    p.SellerName,
		Category:      p.Category,
		Description:   p.Description,
		MainImage:     p.MainImage,
		Images:        images,
		InStock:       p.InStock,
		FirstSeenAt:   p.FirstSeenAt,
		LastUpdatedAt: p.LastUpdatedAt,
		PriceHistory:  make([]dto.PriceHistoryItem, 0),
	}
}

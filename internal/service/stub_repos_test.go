package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/xsha511/brightdata-scraper/internal/dto"
	"github.com/xsha511/brightdata-scraper/internal/model"
)

// ── In-memory ProductRepository stub ─────────────────────────────────────────

type stubProductRepo struct {
	mu       sync.Mutex
	products map[string]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[string]*model.Product)}
}

func (r *stubProductRepo) FindByProductID(_ context.Context, productID string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) FindByProductIDForUpdate(_ *gorm.DB, productID string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductRepo) CreateTx(_ *gorm.DB, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.products[p.ProductID] = &cp
	return nil
}

func (r *stubProductRepo) UpdateTx(_ *gorm.DB, p *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.products[p.ProductID] = &cp
	return nil
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []model.Product
	for _, p := range r.products {
		if filter.MinPrice != nil && (p.CurrentPrice == nil || p.CurrentPrice.InexactFloat64() < *filter.MinPrice) {
			continue
		}
		if filter.MaxPrice != nil && (p.CurrentPrice == nil || p.CurrentPrice.InexactFloat64() > *filter.MaxPrice) {
			continue
		}
		matched = append(matched, *p)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].LastUpdatedAt.Equal(matched[j].LastUpdatedAt) {
			return matched[i].LastUpdatedAt.After(matched[j].LastUpdatedAt)
		}
		return matched[i].ProductID < matched[j].ProductID
	})

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.PageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

// ── In-memory PriceHistoryRepository stub ────────────────────────────────────

type stubHistoryRepo struct {
	mu      sync.Mutex
	entries []model.PriceHistory
}

func newStubHistoryRepo() *stubHistoryRepo { return &stubHistoryRepo{} }

func (r *stubHistoryRepo) CreateTx(_ *gorm.DB, h *model.PriceHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	r.entries = append(r.entries, *h)
	return nil
}

// ListByProductID mirrors the real repo's newest-first ordering. Appends
// within the same timestamp keep insert order, so the reverse of the append
// order is stable.
func (r *stubHistoryRepo) ListByProductID(_ context.Context, productID string) ([]model.PriceHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.PriceHistory
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].ProductID == productID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

// forProduct returns entries in insert (chronological) order.
func (r *stubHistoryRepo) forProduct(productID string) []model.PriceHistory {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.PriceHistory
	for _, e := range r.entries {
		if e.ProductID == productID {
			out = append(out, e)
		}
	}
	return out
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xsha511/brightdata-scraper/internal/dto"
	"github.com/xsha511/brightdata-scraper/internal/model"
	"github.com/xsha511/brightdata-scraper/internal/normalizer"
	"github.com/xsha511/brightdata-scraper/internal/service"
)

func init() { gin.SetMode(gin.TestMode) }

// ─── Service stubs ───────────────────────────────────────────────────────────

type stubProductService struct {
	getResp  *dto.ProductResponse
	getErr   error
	listResp *dto.ProductListResponse
	listErr  error

	lastFilter dto.ProductFilter
}

func (s *stubProductService) Upsert(context.Context, *model.NormalizedProduct) (bool, error) {
	return false, nil
}

func (s *stubProductService) Get(_ context.Context, _ string, _ bool) (*dto.ProductResponse, error) {
	return s.getResp, s.getErr
}

func (s *stubProductService) List(_ context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	s.lastFilter = filter
	return s.listResp, s.listErr
}

type stubCollectService struct {
	collectResp *dto.CollectResponse
	collectErr  error
	batchResp   *dto.BatchCollectResponse

	lastReq dto.CollectProductRequest
}

func (s *stubCollectService) CollectProduct(_ context.Context, req dto.CollectProductRequest) (*dto.CollectResponse, error) {
	s.lastReq = req
	return s.collectResp, s.collectErr
}

func (s *stubCollectService) CollectBatch(context.Context, dto.CollectBatchRequest) *dto.BatchCollectResponse {
	return s.batchResp
}

var (
	_ service.ProductService = (*stubProductService)(nil)
	_ service.CollectService = (*stubCollectService)(nil)
)

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ─── Products ────────────────────────────────────────────────────────────────

func productsRouter(svc service.ProductService) *gin.Engine {
	r := gin.New()
	h := NewProductsHandler(svc)
	r.GET("/api/products", h.List)
	r.GET("/api/products/:product_id", h.Get)
	return r
}

func TestGetProductNotFound(t *testing.T) {
	r := productsRouter(&stubProductService{getErr: service.ErrNotFound})

	w := do(t, r, http.MethodGet, "/api/products/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "product not found", body["detail"])
}

func TestGetProductOK(t *testing.T) {
	r := productsRouter(&stubProductService{getResp: &dto.ProductResponse{
		ProductID:    "601099512345",
		Platform:     "temu",
		Title:        "Widget",
		PriceHistory: []dto.PriceHistoryItem{},
	}})

	w := do(t, r, http.MethodGet, "/api/products/601099512345", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "601099512345", resp.ProductID)
	// price_history is part of the stable shape even when empty
	assert.Contains(t, w.Body.String(), `"price_history":[]`)
}

func TestListDefaultsAndBounds(t *testing.T) {
	svc := &stubProductService{listResp: &dto.ProductListResponse{
		Total: 0, Page: 1, PageSize: 50, Products: []dto.ProductResponse{},
	}}
	r := productsRouter(svc)

	w := do(t, r, http.MethodGet, "/api/products?min_price=10&max_price=20", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1, svc.lastFilter.Page)
	assert.Equal(t, 50, svc.lastFilter.PageSize)
	require.NotNil(t, svc.lastFilter.MinPrice)
	require.NotNil(t, svc.lastFilter.MaxPrice)
	assert.Equal(t, 10.0, *svc.lastFilter.MinPrice)
	assert.Equal(t, 20.0, *svc.lastFilter.MaxPrice)
}

func TestListRejectsOversizedPage(t *testing.T) {
	r := productsRouter(&stubProductService{})

	w := do(t, r, http.MethodGet, "/api/products?page_size=9999", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListRejectsNegativePrice(t *testing.T) {
	r := productsRouter(&stubProductService{})

	w := do(t, r, http.MethodGet, "/api/products?min_price=-5", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListUpstreamFailure(t *testing.T) {
	r := productsRouter(&stubProductService{listErr: errors.New("boom")})

	w := do(t, r, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

// ─── Collect ─────────────────────────────────────────────────────────────────

func collectRouter(svc service.CollectService) *gin.Engine {
	r := gin.New()
	h := NewCollectHandler(svc)
	r.POST("/api/collect/product", h.CollectProduct)
	r.POST("/api/collect/batch", h.CollectBatch)
	return r
}

func TestCollectProductOK(t *testing.T) {
	svc := &stubCollectService{collectResp: &dto.CollectResponse{
		Success: true, Message: "Product saved", ProductID: "601099512345", IsNew: true,
	}}
	r := collectRouter(svc)

	w := do(t, r, http.MethodPost, "/api/collect/product", dto.CollectProductRequest{
		Platform: "temu",
		Product:  map[string]any{"goods_id": "601099512345", "price": 9.99},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.CollectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.IsNew)
	assert.Equal(t, "temu", svc.lastReq.Platform)
}

func TestCollectProductRejectsUnknownPlatform(t *testing.T) {
	r := collectRouter(&stubCollectService{})

	w := do(t, r, http.MethodPost, "/api/collect/product", map[string]any{
		"platform": "ebay",
		"product":  map[string]any{"id": "1"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCollectProductValidationFailure(t *testing.T) {
	_, valErr := normalizer.New(normalizer.Config{}).
		Normalize("amazon", map[string]any{"title": "no id here"})
	require.Error(t, valErr)

	r := collectRouter(&stubCollectService{collectErr: valErr})

	w := do(t, r, http.MethodPost, "/api/collect/product", dto.CollectProductRequest{
		Platform: "amazon",
		Product:  map[string]any{"title": "no id here"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "no resolvable product id")
}

func TestCollectProductUpstreamFailure(t *testing.T) {
	r := collectRouter(&stubCollectService{collectErr: errors.New("db down")})

	w := do(t, r, http.MethodPost, "/api/collect/product", dto.CollectProductRequest{
		Platform: "amazon",
		Product:  map[string]any{"asin": "B0TESTASIN"},
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCollectProductBadJSON(t *testing.T) {
	r := collectRouter(&stubCollectService{})

	req := httptest.NewRequest(http.MethodPost, "/api/collect/product", bytes.NewBufferString("{nope"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCollectBatchPartialFailureResponse(t *testing.T) {
	r := collectRouter(&stubCollectService{batchResp: &dto.BatchCollectResponse{
		Success:    true,
		Message:    "Saved 2/3 products",
		SavedCount: 2,
		Errors:     []string{"item 2: temu payload has no resolvable product id"},
	}})

	w := do(t, r, http.MethodPost, "/api/collect/batch", dto.CollectBatchRequest{
		Platform: "temu",
		Products: []map[string]any{
			{"goods_id": "1"}, {"title": "no id"}, {"goods_id": "2"},
		},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.BatchCollectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.SavedCount)
	require.Len(t, resp.Errors, 1)
	assert.Contains(t, resp.Errors[0], "item 2")
}

func TestCollectBatchRejectsEmptyList(t *testing.T) {
	r := collectRouter(&stubCollectService{})

	w := do(t, r, http.MethodPost, "/api/collect/batch", dto.CollectBatchRequest{
		Platform: "temu",
		Products: []map[string]any{},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

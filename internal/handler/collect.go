package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xsha511/brightdata-scraper/internal/apierror"
	"github.com/xsha511/brightdata-scraper/internal/dto"
	"github.com/xsha511/brightdata-scraper/internal/normalizer"
	"github.com/xsha511/brightdata-scraper/internal/service"
)

// CollectHandler receives product payloads from the browser extension and
// scraper runs.
type CollectHandler struct{ svc service.CollectService }

func NewCollectHandler(svc service.CollectService) *CollectHandler {
	return &CollectHandler{svc: svc}
}

// CollectProduct godoc
// @Summary      Submit one product payload
// @Description  Creates the product if unseen, updates it otherwise, and records price history on changes.
// @Tags         collect
// @Param        request body dto.CollectProductRequest true "platform plus raw vendor payload"
// @Success      200 {object} dto.CollectResponse
// @Failure      422 {object} apierror.APIError
// @Router       /api/collect/product [post]
func (h *CollectHandler) CollectProduct(c *gin.Context) {
	var req dto.CollectProductRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.CollectProduct(c.Request.Context(), req)
	if err != nil {
		if normalizer.IsValidation(err) {
			c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("failed to save product"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CollectBatch godoc
// @Summary      Submit a batch of product payloads
// @Description  Items are applied independently; per-item failures are reported without aborting the batch.
// @Tags         collect
// @Param        request body dto.CollectBatchRequest true "platform plus raw vendor payloads"
// @Success      200 {object} dto.BatchCollectResponse
// @Router       /api/collect/batch [post]
func (h *CollectHandler) CollectBatch(c *gin.Context) {
	var req dto.CollectBatchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.svc.CollectBatch(c.Request.Context(), req))
}

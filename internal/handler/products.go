package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xsha511/brightdata-scraper/internal/apierror"
	"github.com/xsha511/brightdata-scraper/internal/dto"
	"github.com/xsha511/brightdata-scraper/internal/service"
)

// ProductsHandler is the read-side query surface.
type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// List godoc
// @Summary      List products
// @Description  Paginated listing ordered by last update, optionally bounded on current price.
// @Tags         products
// @Param        page       query int     false "Page number (1-indexed)"
// @Param        page_size  query int     false "Items per page (max 200)"
// @Param        min_price  query number  false "Minimum current price"
// @Param        max_price  query number  false "Maximum current price"
// @Success      200 {object} dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}

	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list products"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get one product
// @Description  Looks the product up by its platform-native ID, optionally attaching the full price history newest-first.
// @Tags         products
// @Param        product_id      path  string true  "Platform product ID"
// @Param        include_history query bool   false "Attach price history"
// @Success      200 {object} dto.ProductResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/products/{product_id} [get]
func (h *ProductsHandler) Get(c *gin.Context) {
	productID := c.Param("product_id")
	includeHistory, _ := strconv.ParseBool(c.DefaultQuery("include_history", "false"))

	resp, err := h.svc.Get(c.Request.Context(), productID, includeHistory)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("product not found"))
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.New("failed to load product"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

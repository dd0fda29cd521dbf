package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/xsha511/brightdata-scraper/internal/config"
	"github.com/xsha511/brightdata-scraper/internal/handler"
	"github.com/xsha511/brightdata-scraper/internal/middleware"
	"github.com/xsha511/brightdata-scraper/internal/normalizer"
	"github.com/xsha511/brightdata-scraper/internal/repository"
	"github.com/xsha511/brightdata-scraper/internal/service"
	"github.com/xsha511/brightdata-scraper/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	historyRepo := repository.NewPriceHistoryRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	norm := normalizer.New(normalizer.Config{
		DefaultThreshold: cfg.PriceCentsThreshold,
	})

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	alertPct := 0.0
	if cfg.AlertEmail != "" {
		alertPct = cfg.PriceDropAlertPct
	}
	productSvc := service.NewProductService(productRepo, historyRepo, rdb, dispatcher, alertPct)
	collectSvc := service.NewCollectService(norm, productSvc, dispatcher, cfg.WorkerPoolSize)

	// ── Handlers ─────────────────────────────────────────────────────────────
	collectH := handler.NewCollectHandler(collectSvc)
	productsH := handler.NewProductsHandler(productSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	// Write surface — the extension authenticates with a pre-minted token
	collect := r.Group("/api/collect", middleware.JWTAuth(cfg.JWTSecret))
	{
		collect.POST("/product", collectH.CollectProduct)
		collect.POST("/batch", collectH.CollectBatch)
	}

	// Read surface
	products := r.Group("/api/products")
	{
		products.GET("", productsH.List)
		products.GET("/:product_id", productsH.Get)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

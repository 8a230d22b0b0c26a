package api

import (
	"context"
	"net/http"
	"time"

	"product-finder/internal/api/handlers/chain"
	"product-finder/internal/api/handlers/health"
	"product-finder/internal/api/middleware"
	"product-finder/internal/core/recipe"
	"product-finder/internal/infrastructure/config"
	"product-finder/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 未設定時的請求體大小限制 (10MB)
	defaultMaxBodySize = 10 << 20
)

// SetupRouter 設置路由，cache 只用於健康檢查的統計，可為 nil
func SetupRouter(cfg *config.Config, session *recipe.Session, cache health.StatsProvider) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	maxBodySize := cfg.Server.MaxBodyBytes
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}
	router.Use(middleware.BodySizeLimit(maxBodySize))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	// 設置請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeoutDuration),
			)
			c.AbortWithStatusJSON(http.StatusGatewayTimeout, common.ErrorResponse{
				Code:    common.ErrCodeGatewayTimeout,
				Message: common.ErrGatewayTimeout.Message,
			})
		}
	})

	// 健康檢查路由
	checker := health.NewChecker(cfg, session, cache)
	router.GET("/health", checker.HealthCheck)
	router.GET("/ready", checker.ReadinessCheck)
	router.GET("/live", checker.LivenessCheck)

	h := chain.NewHandler(session, cfg)
	dedup := middleware.NewDeduplicator(cfg.DedupWindow)

	// API 路由組
	api := router.Group("/api/v1")
	{
		api.GET("/bases", h.HandleBases)
		api.GET("/sort-modes", h.HandleSortModes)

		recipesGroup := api.Group("/recipes", dedup.Middleware())
		{
			recipesGroup.POST("/load", h.HandleLoadRecipes)
		}

		propsGroup := api.Group("/properties")
		{
			propsGroup.POST("/load", dedup.Middleware(), h.HandleLoadProperties)
			propsGroup.GET("/:ingredient", h.HandleGetProperties)
		}

		chainsGroup := api.Group("/chains")
		{
			chainsGroup.GET("", h.HandleGetChains)
			chainsGroup.POST("/sort", h.HandleSortChains)
			chainsGroup.POST("/export", dedup.Middleware(), h.HandleExport)
			chainsGroup.POST("/import", h.HandleImport)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("cache_enabled", cache != nil),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("dedup_window", cfg.DedupWindow),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router
}

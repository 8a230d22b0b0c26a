package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"product-finder/internal/api"
	"product-finder/internal/core/cache"
	"product-finder/internal/core/recipe"
	"product-finder/internal/infrastructure/config"
	"product-finder/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.Log.Dir); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("recipe_file", cfg.Finder.RecipeFile),
		zap.String("fallback_file", cfg.Finder.FallbackFile),
		zap.Strings("base_products", cfg.Finder.BaseProducts),
		zap.Int("max_depth", cfg.Finder.MaxDepth),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	// 初始化快取；Redis 連不上時退回記憶體快取
	store, err := cache.New(cfg)
	if err != nil {
		common.LogWarn("快取初始化失敗，改用記憶體快取", zap.Error(err))
		store = cache.NewManager(cfg)
	}
	if store != nil {
		defer store.Close()
	}

	session := recipe.NewSession(cfg, store)

	// 啟動時自動載入屬性目錄與配方檔，失敗不影響啟動
	_, _ = session.LoadProperties(cfg.Finder.PropertiesDir, false)
	if cfg.Finder.RecipeFile != "" {
		if _, err := session.Load(context.Background(), cfg.Finder.RecipeFile); err != nil {
			common.LogWarn("啟動時載入配方失敗，將於首次查詢時嘗試預設檔案", zap.Error(err))
		}
	}

	router := api.SetupRouter(cfg, session, store)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}

package health

import (
	"net/http"
	"runtime"
	"time"

	"product-finder/internal/core/recipe"
	"product-finder/internal/infrastructure/config"
	"product-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Index     *IndexStatus           `json:"index,omitempty"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
}

// IndexStatus 目前載入的配方索引
type IndexStatus struct {
	Recipes     int    `json:"recipes"`
	Prices      int    `json:"prices"`
	Fingerprint string `json:"fingerprint"`
}

// StatsProvider 可回報統計的元件（快取）
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// Checker 健康檢查處理程序
type Checker struct {
	config  *config.Config
	session *recipe.Session
	cache   StatsProvider
}

// NewChecker 創建健康檢查處理程序，cache 可為 nil
func NewChecker(cfg *config.Config, session *recipe.Session, cache StatsProvider) *Checker {
	return &Checker{config: cfg, session: session, cache: cache}
}

// HealthCheck 健康檢查處理器
func (h *Checker) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	if idx := h.session.Index(); idx != nil {
		response.Index = &IndexStatus{
			Recipes:     idx.Len(),
			Prices:      idx.PriceCount(),
			Fingerprint: idx.Fingerprint(),
		}
	}
	if h.cache != nil {
		response.Cache = h.cache.GetStats()
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查：尚未載入配方時回傳 503
func (h *Checker) ReadinessCheck(c *gin.Context) {
	if !h.session.Loaded() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"code":   common.ErrCodeMissingData,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Checker) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

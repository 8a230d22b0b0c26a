package recipe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"product-finder/internal/infrastructure/config"
	"product-finder/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Fetcher 從遠端 URL 下載配方檔
type Fetcher struct {
	client *resty.Client
}

// NewFetcher 創建遠端配方下載器
func NewFetcher(cfg *config.Config) *Fetcher {
	client := resty.New().
		SetTimeout(cfg.Finder.RemoteTimeout).
		SetRetryCount(cfg.Finder.RemoteRetries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", fmt.Sprintf("%s/%s", cfg.App.Name, cfg.App.Version))

	return &Fetcher{client: client}
}

// Fetch 下載原始內容，非 200 回應視為載入失敗
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, common.Wrap(common.ErrLoadFailure, fmt.Errorf("failed to fetch recipes: %w", err))
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, common.Wrap(common.ErrLoadFailure, fmt.Errorf("recipe source returned %s", resp.Status()))
	}

	common.LogDebug("已下載遠端配方",
		zap.String("url", url),
		zap.Int("bytes", len(resp.Body())),
		zap.Duration("耗時", resp.Time()),
	)
	return resp.Body(), nil
}

// Load 下載並解析配方檔
func (f *Fetcher) Load(ctx context.Context, url string) (*Index, LoadStats, error) {
	data, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, LoadStats{Source: url}, err
	}
	idx, stats, err := ParsePayload(data)
	stats.Source = url
	return idx, stats, err
}

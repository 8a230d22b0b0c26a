package cache

import (
	"context"
	"fmt"

	"product-finder/internal/infrastructure/config"
)

// Store 配方鏈快取後端
type Store interface {
	Get(ctx context.Context, key string) ([]string, bool)
	Set(ctx context.Context, key string, chains []string) error
	GetStats() map[string]interface{}
	Close() error
}

// New 依設定建立快取；停用時回傳 nil
func New(cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}

	switch cfg.Cache.Backend {
	case config.CacheBackendMemory, "":
		return NewManager(cfg), nil
	case config.CacheBackendRedis:
		rc, err := NewRedisCache(cfg)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}

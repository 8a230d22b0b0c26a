package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"product-finder/internal/infrastructure/config"
	"product-finder/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const keyPrefix = "product-finder:"

// RedisCache 以 Redis 保存配方鏈，值為 JSON 陣列
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache 連線 Redis，連不上時回傳錯誤
func NewRedisCache(cfg *config.Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Cache.RedisAddr,
		Password:    cfg.Cache.RedisPassword,
		DB:          cfg.Cache.RedisDB,
		DialTimeout: 2 * time.Second,
	})

	// 測試連接
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 快取已連線",
		zap.String("addr", cfg.Cache.RedisAddr),
		zap.Int("db", cfg.Cache.RedisDB),
	)
	return NewRedisCacheWithClient(client, cfg.Cache.TTL), nil
}

// NewRedisCacheWithClient 使用既有的 client
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get 獲取緩存，任何錯誤都視為未命中
func (s *RedisCache) Get(ctx context.Context, key string) ([]string, bool) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			common.LogCacheMiss("redis", key)
		} else {
			common.LogWarn("Redis 讀取失敗", zap.String("鍵", key), zap.Error(err))
		}
		return nil, false
	}

	var chains []string
	if err := common.UnmarshalJSON(data, &chains); err != nil {
		common.LogWarn("Redis 快取內容無法解析", zap.String("鍵", key), zap.Error(err))
		return nil, false
	}

	common.LogCacheHit("redis", key)
	return chains, true
}

// Set 設置緩存
func (s *RedisCache) Set(ctx context.Context, key string, chains []string) error {
	data, err := common.MarshalJSON(chains)
	if err != nil {
		return fmt.Errorf("failed to marshal chains: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// GetStats 連線池統計
func (s *RedisCache) GetStats() map[string]interface{} {
	ps := s.client.PoolStats()
	return map[string]interface{}{
		"backend":     config.CacheBackendRedis,
		"hits":        ps.Hits,
		"misses":      ps.Misses,
		"timeouts":    ps.Timeouts,
		"total_conns": ps.TotalConns,
		"idle_conns":  ps.IdleConns,
	}
}

// Close 關閉連線
func (s *RedisCache) Close() error {
	return s.client.Close()
}

package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"product-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter 令牌桶限流器
type RateLimiter struct {
	mu       sync.Mutex
	tokens   float64
	capacity float64
	rate     float64
	lastTime time.Time
}

// NewRateLimiter 創建新的限流器，window 內最多 requests 次
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:   float64(requests),
		capacity: float64(requests),
		rate:     float64(requests) / window.Seconds(),
		lastTime: time.Now(),
	}
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow() bool {
	return rl.allowAt(time.Now())
}

func (rl *RateLimiter) allowAt(now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	// 依經過時間補充令牌，保留小數部分
	elapsed := now.Sub(rl.lastTime).Seconds()
	rl.lastTime = now
	rl.tokens += elapsed * rl.rate
	if rl.tokens > rl.capacity {
		rl.tokens = rl.capacity
	}

	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// idleSince 最後一次請求的時間
func (rl *RateLimiter) idleSince() time.Time {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.lastTime
}

// clientLimiters 依用戶端 IP 分別限流；閒置超過一個 window 的令牌桶已經補滿，直接移除
type clientLimiters struct {
	mu        sync.Mutex
	requests  int
	window    time.Duration
	limiters  map[string]*RateLimiter
	lastSweep time.Time
}

func (cl *clientLimiters) get(ip string, now time.Time) *RateLimiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if now.Sub(cl.lastSweep) > cl.window {
		for k, rl := range cl.limiters {
			if now.Sub(rl.idleSince()) > cl.window {
				delete(cl.limiters, k)
			}
		}
		cl.lastSweep = now
	}

	rl, ok := cl.limiters[ip]
	if !ok {
		rl = NewRateLimiter(cl.requests, cl.window)
		rl.lastTime = now
		cl.limiters[ip] = rl
	}
	return rl
}

func newClientLimiters(requests int, window time.Duration) *clientLimiters {
	return &clientLimiters{
		requests:  requests,
		window:    window,
		limiters:  make(map[string]*RateLimiter),
		lastSweep: time.Now(),
	}
}

// RateLimit 限流中間件
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiters := newClientLimiters(requests, window)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()
		if !limiters.get(ip, now).allowAt(now) {
			common.LogWarn("Rate limit exceeded",
				zap.String("ip", ip),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Code:    common.ErrCodeTooManyRequests,
				Message: common.ErrTooManyRequests.Message,
			})
			return
		}

		c.Next()
	}
}

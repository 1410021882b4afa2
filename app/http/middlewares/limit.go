package middlewares

import (
	"net/http"
	"sync"
	"time"

	"socialpulse/pkg/app"
	"socialpulse/pkg/limiter"
	"socialpulse/pkg/logger"
	"socialpulse/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"golang.org/x/time/rate"
)

const (
	// DefaultBurst 默认突发请求数量
	DefaultBurst = 100
	// limiterIdleTTL 超过该时间未使用的限流器会被清理
	limiterIdleTTL = 24 * time.Hour
)

// ipLimiter 带最近访问时间的限流器
type ipLimiter struct {
	*rate.Limiter
	lastAccess accessTime
}

type accessTime struct {
	mu sync.Mutex
	t  time.Time
}

func (a *accessTime) Store(t time.Time) {
	a.mu.Lock()
	a.t = t
	a.mu.Unlock()
}

func (a *accessTime) Load() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.t
}

var (
	// 用于存储限流器的并发安全缓存
	limiters    sync.Map // map[string]*ipLimiter
	cleanupOnce sync.Once
)

// LimitIP 全局限流中间件，针对 IP 进行限流
//
// 支持的限流格式:
// - 5 reqs/second:   "5-S"
// - 10 reqs/minute:  "10-M"
// - 1000 reqs/hour:  "1000-H"
// - 2000 reqs/day:   "2000-D"
//
// 限流器创建失败时放行请求。
func LimitIP(limit string) gin.HandlerFunc {
	// 测试环境使用较大限制
	if app.IsTesting() {
		limit = "1000000-H"
	}

	cleanupOnce.Do(func() {
		go cleanupLimiters()
	})

	return func(c *gin.Context) {
		key := limiter.GetKeyIP(c)

		lim, err := getLimiter(key, limit, DefaultBurst)
		if err != nil {
			logger.ErrorString("限流器", "创建失败", err.Error())
			// 降级处理：允许请求通过
			c.Next()
			return
		}

		// 尝试获取令牌
		if !lim.Allow() {
			response.Abort429(c)
			return
		}

		setRateLimitHeaders(c, lim.Limiter)
		c.Next()
	}
}

// LimitPerRoute 针对单个路由的限流中间件，计数存储在 Redis 或进程内存中
func LimitPerRoute(limit string) gin.HandlerFunc {
	if app.IsTesting() {
		limit = "1000000-H"
	}

	return func(c *gin.Context) {
		key := limiter.GetKeyRouteWithIP(c)
		rate, err := limiter.CheckRate(c, key, limit)
		if err != nil {
			logger.LogIf(err)
			response.Abort500(c)
			return
		}

		c.Header("X-RateLimit-Limit", cast.ToString(rate.Limit))
		c.Header("X-RateLimit-Remaining", cast.ToString(rate.Remaining))
		c.Header("X-RateLimit-Reset", cast.ToString(rate.Reset))

		if rate.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.Response{
				Status:  response.Error,
				Error:   "Too Many Requests",
				Message: "接口请求太频繁",
			})
			return
		}

		c.Next()
	}
}

// getLimiter 获取或创建限流器
func getLimiter(key, limit string, burst int) (*ipLimiter, error) {
	now := time.Now()

	// 尝试从缓存获取限流器
	if lim, exists := limiters.Load(key); exists {
		l := lim.(*ipLimiter)
		l.lastAccess.Store(now)
		return l, nil
	}

	// 解析限流配置
	r, err := limiter.ParseLimit(limit)
	if err != nil {
		return nil, err
	}

	lim := &ipLimiter{Limiter: rate.NewLimiter(rate.Limit(r.Rate), burst)}
	lim.lastAccess.Store(now)

	// 并发安全地存储限流器
	actual, _ := limiters.LoadOrStore(key, lim)
	return actual.(*ipLimiter), nil
}

// setRateLimitHeaders 设置限流相关的响应头
func setRateLimitHeaders(c *gin.Context, lim *rate.Limiter) {
	c.Header("X-RateLimit-Limit", cast.ToString(float64(lim.Limit())))
	c.Header("X-RateLimit-Remaining", cast.ToString(int(lim.Tokens())))
	c.Header("X-RateLimit-Reset", cast.ToString(time.Now().Add(time.Second).Unix()))
}

// cleanupLimiters 定期清理过期的限流器
func cleanupLimiters() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for now := range ticker.C {
		sweepLimiters(now)
	}
}

// sweepLimiters 清理超过 limiterIdleTTL 未使用的限流器
func sweepLimiters(now time.Time) {
	limiters.Range(func(key, value interface{}) bool {
		if now.Sub(value.(*ipLimiter).lastAccess.Load()) > limiterIdleTTL {
			limiters.Delete(key)
		}
		return true
	})
}

// Package limiter 处理限流逻辑
package limiter

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"socialpulse/pkg/config"
	"socialpulse/pkg/logger"
	"socialpulse/pkg/redis"

	"github.com/gin-gonic/gin"
	limiterlib "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// Rate 定义限流速率
type Rate struct {
	Rate float64
}

var (
	storeOnce   sync.Once
	sharedStore limiterlib.Store
	storeErr    error
)

// ParseLimit 解析限流配置字符串，换算为每秒速率
// 支持的格式: "5-S"、"10-M"、"1000-H"、"2000-D"
func ParseLimit(limit string) (*Rate, error) {
	r, err := limiterlib.NewRateFromFormatted(limit)
	if err != nil {
		return nil, fmt.Errorf("invalid limit format: %w", err)
	}
	if r.Limit <= 0 || r.Period <= 0 {
		return nil, fmt.Errorf("invalid limit format: %s", limit)
	}

	return &Rate{Rate: float64(r.Limit) / r.Period.Seconds()}, nil
}

// GetKeyIP 获取 Limitor 的 Key，IP
func GetKeyIP(c *gin.Context) string {
	return c.ClientIP()
}

// GetKeyRouteWithIP Limitor 的 Key，路由+IP，针对单个路由做限流
func GetKeyRouteWithIP(c *gin.Context) string {
	return routeToKeyString(c.FullPath()) + c.ClientIP()
}

// Store 获取共享的限流存储，启用 Redis 时使用主库，否则退化为进程内存
func Store() (limiterlib.Store, error) {
	storeOnce.Do(func() {
		// 为 limiter 设置前缀，保持 redis 里数据的整洁
		opts := limiterlib.StoreOptions{
			Prefix:          config.GetString("app.name", "socialpulse") + ":limiter",
			CleanUpInterval: time.Minute,
		}
		if rds := redis.GetRedis(redis.MainDB); rds != nil {
			sharedStore, storeErr = sredis.NewStoreWithOptions(rds.Client, opts)
			return
		}
		sharedStore = memory.NewStoreWithOptions(opts)
	})
	return sharedStore, storeErr
}

// CheckRate 检测请求是否超额
func CheckRate(c *gin.Context, key string, formatted string) (limiterlib.Context, error) {
	store, err := Store()
	if err != nil {
		logger.LogIf(err)
		return limiterlib.Context{}, err
	}
	return CheckRateWithStore(c, store, key, formatted)
}

// CheckRateWithStore 使用指定存储检测请求是否超额
func CheckRateWithStore(c *gin.Context, store limiterlib.Store, key string, formatted string) (limiterlib.Context, error) {
	// 实例化依赖的 limiter 包的 limiter.Rate 对象
	rate, err := limiterlib.NewRateFromFormatted(formatted)
	if err != nil {
		logger.LogIf(err)
		return limiterlib.Context{}, err
	}

	limiterObj := limiterlib.New(store, rate)

	// 获取限流的结果
	if c.GetBool("limiter-once") {
		// Peek() 取结果，不增加访问次数
		return limiterObj.Peek(c, key)
	}

	// 确保多个路由组里调用限流时，只增加一次访问次数。
	c.Set("limiter-once", true)

	// Get() 取结果且增加访问次数
	return limiterObj.Get(c, key)
}

// routeToKeyString 辅助方法，将 URL 中的 / 格式为 -
func routeToKeyString(routeName string) string {
	routeName = strings.ReplaceAll(routeName, "/", "-")
	routeName = strings.ReplaceAll(routeName, ":", "_")
	return routeName
}

package bootstrap

import (
	"fmt"

	"socialpulse/pkg/config"
	"socialpulse/pkg/logger"
	"socialpulse/pkg/redis"
)

// SetupRedis 初始化 Redis，未启用时返回 false
func SetupRedis() bool {
	if !config.GetBool("redis.enabled") {
		logger.InfoString("Redis", "Setup", "Redis 未启用，限流使用进程内存，异步任务不可用")
		return false
	}

	// 初始化 Redis 连接
	redis.InitRedis(
		fmt.Sprintf("%v:%v", config.GetString("redis.host"), config.GetString("redis.port")),
		config.GetString("redis.username"),
		config.GetString("redis.password"),
		config.GetInt("redis.database"),
		config.GetInt("redis.queue_database"),
	)
	return true
}

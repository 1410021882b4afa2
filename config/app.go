package config

import "socialpulse/pkg/config"

func init() {
	config.Add("app", func() map[string]interface{} {
		return map[string]interface{}{

			// 应用名称
			"name": config.Env("APP_NAME", "socialpulse"),

			// 当前环境，用以区分多环境，一般为 local, stage, production, testing
			"env": config.Env("APP_ENV", "production"),

			// 是否进入调试模式
			"debug": config.Env("APP_DEBUG", false),

			// 应用服务端口
			"port": config.Env("APP_PORT", "3000"),

			// 设置时区，日志记录里会使用到
			"timezone": config.Env("TIMEZONE", "Asia/Shanghai"),

			// 全局每 IP 限流，格式同 limiter.ParseLimit
			"api_rate_limit": config.Env("API_RATE_LIMIT", "30000-H"),

			// 提问接口每 IP 限流
			"chat_rate_limit": config.Env("CHAT_RATE_LIMIT", "100-H"),
		}
	})
}

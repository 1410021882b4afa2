package config

import (
	"socialpulse/pkg/config"
)

func init() {
	// 聊天记录库，本地默认 SQLite 单文件，部署时可切到 PostgreSQL
	config.Add("database", func() map[string]interface{} {
		return map[string]interface{}{
			"connection": config.Env("DB_CONNECTION", "sqlite"),

			// 启动时建表，只读副本上可关闭
			"auto_migrate": config.Env("DB_AUTO_MIGRATE", true),

			"postgresql": map[string]interface{}{
				"host":     config.Env("DB_HOST", "127.0.0.1"),
				"port":     config.Env("DB_PORT", "5432"),
				"database": config.Env("DB_DATABASE", "socialpulse"),
				"username": config.Env("DB_USERNAME", ""),
				"password": config.Env("DB_PASSWORD", ""),
				// 托管库一般要求 require
				"sslmode": config.Env("DB_SSLMODE", "disable"),

				"max_idle_connections": config.Env("DB_MAX_IDLE_CONNECTIONS", 10),
				"max_open_connections": config.Env("DB_MAX_OPEN_CONNECTIONS", 25),
				"max_life_seconds":     config.Env("DB_MAX_LIFE_SECONDS", 5*60),
			},

			"sqlite": map[string]interface{}{
				"database": config.Env("DB_SQL_FILE", "socialpulse.db"),
				// 毫秒，写锁等待时间
				"busy_timeout": config.Env("DB_SQLITE_BUSY_TIMEOUT", 5000),
			},
		}
	})
}

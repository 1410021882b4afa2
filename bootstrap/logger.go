package bootstrap

import (
	"fmt"

	"socialpulse/pkg/config"
	"socialpulse/pkg/logger"
)

// SetupLogger 按 log.* 配置初始化 zap，serve 与各个 CLI 子命令共用
func SetupLogger() {
	logType := config.GetString("log.type", "single")
	if logType != "daily" && logType != "single" {
		logType = "single"
	}

	logger.InitLogger(
		config.GetString("log.filename", "storage/logs/logs.log"),
		config.GetInt("log.max_size", 64), // MB
		config.GetInt("log.max_backup", 5),
		config.GetInt("log.max_age", 30), // 天
		config.GetBool("log.compress"),
		logType,
		config.GetString("log.level", "debug"),
	)

	logger.DebugString("Bootstrap", "Logger", fmt.Sprintf("日志初始化完成 类型:%s 级别:%s",
		logType, config.GetString("log.level", "debug")))
}

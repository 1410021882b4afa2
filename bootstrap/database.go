package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"socialpulse/pkg/config"
	"socialpulse/pkg/database"
	"socialpulse/pkg/database/migrations"
	"socialpulse/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupDB 连接聊天记录库并按配置建表
func SetupDB() {
	// 根据配置文件选择数据库类型
	var dbConfig gorm.Dialector
	switch config.Get("database.connection") {
	case "postgresql":
		dbConfig = setupPostgreSQL()
	case "sqlite":
		dbConfig = setupSQLite()
	default:
		panic(errors.New("暂不支持该数据库类型"))
	}

	// 连接数据库，并设置 GORM 的日志模式
	database.Connect(dbConfig, logger.NewGormLogger())

	// 设置连接池
	setupDBPool()

	if !config.GetBool("database.auto_migrate", true) {
		return
	}
	if err := migrations.Migrate(database.DB); err != nil {
		logger.ErrorString("数据库", "自动迁移", "数据表结构迁移失败："+err.Error())
		return
	}
	logger.InfoString("数据库", "自动迁移", "数据表结构迁移成功")
}

// setupPostgreSQL 配置 PostgreSQL 连接
func setupPostgreSQL() gorm.Dialector {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		config.Get("database.postgresql.host"),
		config.Get("database.postgresql.port"),
		config.Get("database.postgresql.username"),
		config.Get("database.postgresql.password"),
		config.Get("database.postgresql.database"),
		config.GetString("database.postgresql.sslmode", "disable"),
		config.GetString("app.timezone", "UTC"),
	)
	return postgres.New(postgres.Config{
		DSN: dsn,
	})
}

// setupSQLite 配置 SQLite 连接，通过 DSN 参数设置写锁等待
func setupSQLite() gorm.Dialector {
	return sqlite.Open(sqliteDSN(
		config.GetString("database.sqlite.database"),
		config.GetInt("database.sqlite.busy_timeout", 5000),
	))
}

func sqliteDSN(file string, busyTimeout int) string {
	if busyTimeout <= 0 {
		return file
	}
	sep := "?"
	if strings.Contains(file, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_busy_timeout=%d", file, sep, busyTimeout)
}

// setupDBPool 配置数据库连接池，SQLite 只允许单个写连接
func setupDBPool() {
	if config.Get("database.connection") == "sqlite" {
		database.SQLDB.SetMaxOpenConns(1)
		return
	}
	database.SQLDB.SetMaxOpenConns(config.GetInt("database.postgresql.max_open_connections"))
	database.SQLDB.SetMaxIdleConns(config.GetInt("database.postgresql.max_idle_connections"))
	database.SQLDB.SetConnMaxLifetime(time.Duration(config.GetInt("database.postgresql.max_life_seconds")) * time.Second)
}

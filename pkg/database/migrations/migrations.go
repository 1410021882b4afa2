// Package migrations 维护需要自动迁移的数据表
package migrations

import (
	"fmt"

	"socialpulse/app/models/conversation"

	"gorm.io/gorm"
)

// RegisterTables 需要迁移的模型，目前只有聊天记录
func RegisterTables() []interface{} {
	return []interface{}{
		&conversation.Message{},
	}
}

// Migrate 逐个模型执行 AutoMigrate，失败时返回出错的模型
func Migrate(db *gorm.DB) error {
	for _, model := range RegisterTables() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("migrate %T: %w", model, err)
		}
	}
	return nil
}

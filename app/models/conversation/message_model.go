// Package conversation 聊天记录模型
package conversation

import (
	"socialpulse/app/models"

	"gorm.io/gorm"
)

// Message 一条聊天消息，用户提问和助手回答各存一条
type Message struct {
	models.BaseModel

	SessionID string `gorm:"type:varchar(36);index" json:"session_id"`
	Role      Role   `gorm:"type:varchar(16)" json:"role"`
	Content   string `gorm:"type:text" json:"content"`
	// 网关失败时记录失败类型，Content 为展示给用户的提示信息
	ErrorKind string `gorm:"type:varchar(32);default:''" json:"error_kind,omitempty"`
	JobID     string `gorm:"type:varchar(36);index" json:"job_id,omitempty"`

	models.CommonTimestampsField
}

// TableName 指定表名
func (Message) TableName() string {
	return "chat_messages"
}

// BeforeSave GORM 钩子
func (m *Message) BeforeSave(tx *gorm.DB) error {
	return m.Validate()
}

package repositories

import (
	"context"

	"socialpulse/app/models/conversation"
	"socialpulse/pkg/database"

	"gorm.io/gorm"
)

// MessageRepository 聊天记录仓库
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建仓库实例，db 为空时使用全局连接
func NewMessageRepository(db ...*gorm.DB) *MessageRepository {
	conn := database.DB
	if len(db) > 0 && db[0] != nil {
		conn = db[0]
	}
	return &MessageRepository{db: conn}
}

// Create 保存消息
func (r *MessageRepository) Create(ctx context.Context, messages ...*conversation.Message) error {
	if len(messages) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(messages).Error
}

// GetBySession 分页获取会话消息，按时间正序
func (r *MessageRepository) GetBySession(ctx context.Context, sessionID string, page, pageSize int) ([]conversation.Message, int64, error) {
	var messages []conversation.Message
	var total int64

	query := r.db.WithContext(ctx).Model(&conversation.Message{}).Where("session_id = ?", sessionID)

	// 获取总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	err := query.Order("created_at ASC, id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&messages).Error

	return messages, total, err
}

// GetByJobID 获取异步任务对应的消息
func (r *MessageRepository) GetByJobID(ctx context.Context, jobID string) ([]conversation.Message, error) {
	var messages []conversation.Message
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

package conversation

import (
	"errors"
)

// Role 消息角色
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Validate 验证记录
func (m *Message) Validate() error {
	if m.SessionID == "" {
		return errors.New("session_id is required")
	}
	if m.Role != RoleUser && m.Role != RoleAssistant {
		return errors.New("invalid message role")
	}
	return nil
}

// IsFailed 助手回复是否为失败提示
func (m *Message) IsFailed() bool {
	return m.ErrorKind != ""
}

// NewUserMessage 用户提问
func NewUserMessage(sessionID, query string) *Message {
	return &Message{SessionID: sessionID, Role: RoleUser, Content: query}
}

// NewAssistantMessage 助手回答，errorKind 为空表示成功
func NewAssistantMessage(sessionID, content, errorKind string) *Message {
	return &Message{SessionID: sessionID, Role: RoleAssistant, Content: content, ErrorKind: errorKind}
}

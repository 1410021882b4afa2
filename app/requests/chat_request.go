package requests

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thedevsaddam/govalidator"
)

// ChatRequest 聊天请求
type ChatRequest struct {
	SessionID string `json:"session_id" valid:"session_id"`
	Query     string `json:"query" valid:"query"`
}

// ValidateChat 解析并验证聊天请求，问题首尾空白会被去掉
func ValidateChat(c *gin.Context) (ChatRequest, error) {
	rules := govalidator.MapData{
		"session_id": []string{"uuid"},
		"query":      []string{"required", "max:4000"},
	}
	messages := govalidator.MapData{
		"session_id": []string{
			"uuid:会话 ID 格式不正确",
		},
		"query": []string{
			"required:问题不能为空",
			"max:问题长度不能超过 4000 个字符",
		},
	}

	req, err := ValidateRequest[ChatRequest](c, rules, messages)
	if err != nil {
		return req, err
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return req, ValidationError{Errors: map[string][]string{"query": {"问题不能为空"}}}
	}
	return req, nil
}

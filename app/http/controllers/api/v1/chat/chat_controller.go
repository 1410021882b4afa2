// Package chat 聊天相关接口
package chat

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"socialpulse/app/models/conversation"
	"socialpulse/app/requests"
	"socialpulse/pkg/langflow"
	"socialpulse/pkg/logger"
	"socialpulse/pkg/queue"
	"socialpulse/pkg/response"
)

// 分页参数
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Gateway 远程查询网关
type Gateway interface {
	Invoke(ctx context.Context, query string, tweaks langflow.Tweaks) (string, error)
	TestConnection(ctx context.Context) error
}

// History 聊天记录存储
type History interface {
	Create(ctx context.Context, messages ...*conversation.Message) error
	GetBySession(ctx context.Context, sessionID string, page, pageSize int) ([]conversation.Message, int64, error)
	GetByJobID(ctx context.Context, jobID string) ([]conversation.Message, error)
}

// jobView 任务状态，完成后附带写入历史的问答消息
type jobView struct {
	*queue.ChatTask
	Messages []conversation.Message `json:"messages,omitempty"`
}

// ChatController 聊天控制器
type ChatController struct {
	gateway Gateway
	tweaks  langflow.Tweaks
	history History
	queue   *queue.QueueService // 未启用 Redis 时为 nil
}

// NewChatController 创建控制器，history 和 qs 可为 nil
func NewChatController(gateway Gateway, tweaks langflow.Tweaks, history History, qs *queue.QueueService) *ChatController {
	return &ChatController{
		gateway: gateway,
		tweaks:  tweaks,
		history: history,
		queue:   qs,
	}
}

// Store 同步提问，等待网关返回答案
func (cc *ChatController) Store(c *gin.Context) {
	// 1. 请求验证
	request, err := requests.ValidateChat(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	sessionID := request.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	// 2. 调用网关，只调用一次
	answer, err := cc.gateway.Invoke(c.Request.Context(), request.Query, cc.tweaks)

	// 3. 保存聊天记录，失败时保存展示给用户的提示信息
	reply := conversation.NewAssistantMessage(sessionID, answer, "")
	if err != nil {
		reply = conversation.NewAssistantMessage(sessionID, langflow.UserMessage(err), string(langflow.KindOf(err)))
	}
	cc.saveHistory(c.Request.Context(), conversation.NewUserMessage(sessionID, request.Query), reply)

	if err != nil {
		gatewayFailure(c, err, gin.H{"session_id": sessionID})
		return
	}

	response.Data(c, gin.H{
		"session_id": sessionID,
		"answer":     answer,
	})
}

// Ping 发送测试问题，检查远端流程是否可用
func (cc *ChatController) Ping(c *gin.Context) {
	start := time.Now()
	if err := cc.gateway.TestConnection(c.Request.Context()); err != nil {
		gatewayFailure(c, err, gin.H{"connected": false})
		return
	}

	response.Data(c, gin.H{
		"connected":  true,
		"latency_ms": time.Since(start).Milliseconds(),
	})
}

// History 分页获取会话历史
func (cc *ChatController) History(c *gin.Context) {
	if cc.history == nil {
		response.Abort503(c, "聊天记录未启用")
		return
	}

	sessionID := c.Param("session_id")
	if _, err := uuid.Parse(sessionID); err != nil {
		response.Abort400(c, "会话 ID 格式不正确")
		return
	}

	page, pageSize := pagination(c)
	messages, total, err := cc.history.GetBySession(c.Request.Context(), sessionID, page, pageSize)
	if err != nil {
		response.ServerError(c, err, "获取聊天记录失败")
		return
	}

	response.Data(c, gin.H{
		"session_id": sessionID,
		"messages":   messages,
		"pagination": gin.H{
			"page":      page,
			"page_size": pageSize,
			"total":     total,
		},
	})
}

// StoreJob 异步提问，任务由队列工作器处理
func (cc *ChatController) StoreJob(c *gin.Context) {
	if cc.queue == nil {
		response.Abort503(c, "异步任务未启用")
		return
	}

	request, err := requests.ValidateChat(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	sessionID := request.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	now := time.Now()
	task := &queue.ChatTask{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Query:     request.Query,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := cc.queue.PushTask(c.Request.Context(), task); err != nil {
		if errors.Is(err, queue.ErrRateLimited) {
			response.Abort429(c, "任务提交太频繁，请稍后再试")
			return
		}
		logger.ErrorString("Chat", "PushTask", err.Error())
		response.Abort500(c, "任务入队失败")
		return
	}

	response.Accepted(c, gin.H{
		"job_id":     task.ID,
		"session_id": task.SessionID,
		"status":     task.Status,
	})
}

// ShowJob 查询异步任务
func (cc *ChatController) ShowJob(c *gin.Context) {
	if cc.queue == nil {
		response.Abort503(c, "异步任务未启用")
		return
	}

	task, err := cc.queue.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ServerError(c, err, "获取任务失败")
		return
	}
	if task == nil {
		response.Abort404(c, "任务不存在")
		return
	}

	view := jobView{ChatTask: task}
	if task.Finished() && cc.history != nil {
		messages, err := cc.history.GetByJobID(c.Request.Context(), task.ID)
		if err != nil {
			logger.ErrorString("Chat", "GetByJobID", err.Error())
		}
		view.Messages = messages
	}
	response.Data(c, view)
}

// saveHistory 保存失败只记录日志，不影响本次回答
func (cc *ChatController) saveHistory(ctx context.Context, messages ...*conversation.Message) {
	if cc.history == nil {
		return
	}
	if err := cc.history.Create(ctx, messages...); err != nil {
		logger.ErrorString("Chat", "SaveHistory", err.Error())
	}
}

// StatusForKind 网关失败类型对应的 HTTP 状态码
func StatusForKind(kind langflow.Kind) int {
	switch kind {
	case langflow.KindConfiguration:
		return http.StatusServiceUnavailable
	case langflow.KindTimeout:
		return http.StatusGatewayTimeout
	case "":
		return http.StatusInternalServerError
	}
	return http.StatusBadGateway
}

func gatewayFailure(c *gin.Context, err error, data gin.H) {
	kind := langflow.KindOf(err)
	response.Failure(c, StatusForKind(kind), string(kind), langflow.UserMessage(err), data)
}

func badRequest(c *gin.Context, err error) {
	var verr requests.ValidationError
	if errors.As(err, &verr) {
		response.ValidationError(c, verr.Errors)
		return
	}
	response.BadRequest(c, err, "请求参数验证失败")
}

// pagination 解析分页参数
func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

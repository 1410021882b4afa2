// Package api 不区分版本的接口
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"socialpulse/pkg/helpers"
	"socialpulse/pkg/langflow"
	"socialpulse/pkg/queue"
	"socialpulse/pkg/response"
)

// checkTimeout 单项检查的超时时间
const checkTimeout = 2 * time.Second

// HealthController 健康检查
type HealthController struct {
	gateway langflow.Config
	dbPing  func(ctx context.Context) error // 为 nil 表示未启用
	queue   *queue.QueueService             // 为 nil 表示未启用
}

// NewHealthController 创建控制器
func NewHealthController(gateway langflow.Config, dbPing func(ctx context.Context) error, qs *queue.QueueService) *HealthController {
	return &HealthController{gateway: gateway, dbPing: dbPing, queue: qs}
}

// componentStatus 单项检查结果
type componentStatus struct {
	Status string      `json:"status"`
	Error  string      `json:"error,omitempty"`
	Detail interface{} `json:"detail,omitempty"`
}

// Show 检查网关配置、数据库和队列，只检查本地依赖，不调用远端流程
func (hc *HealthController) Show(c *gin.Context) {
	healthy := true
	components := map[string]componentStatus{}

	// 网关配置
	gw := componentStatus{Status: "ok", Detail: gin.H{
		"base_url": helpers.ShortenURL(hc.gateway.BaseURL),
		"token":    helpers.MaskSecret(hc.gateway.Token),
		"shape":    hc.gateway.Shape.String(),
		"timeout":  hc.gateway.Timeout.String(),
	}}
	if err := hc.gateway.Validate(); err != nil {
		healthy = false
		gw.Status, gw.Error = "error", err.Error()
	}
	components["langflow"] = gw

	components["database"] = hc.check(c.Request.Context(), hc.dbPing, &healthy)

	if hc.queue == nil {
		components["queue"] = componentStatus{Status: "disabled"}
	} else {
		qs := hc.check(c.Request.Context(), hc.queue.Ping, &healthy)
		qs.Detail = hc.queue.Metrics().Snapshot()
		components["queue"] = qs
	}

	data := gin.H{
		"components": components,
		"time":       time.Now().Unix(),
	}
	if !healthy {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, response.Response{
			Status:  response.Error,
			Data:    data,
			Message: "部分服务不可用",
		})
		return
	}
	response.Data(c, data)
}

func (hc *HealthController) check(ctx context.Context, ping func(ctx context.Context) error, healthy *bool) componentStatus {
	if ping == nil {
		return componentStatus{Status: "disabled"}
	}
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := ping(ctx); err != nil {
		*healthy = false
		return componentStatus{Status: "error", Error: err.Error()}
	}
	return componentStatus{Status: "ok"}
}

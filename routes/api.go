// Package routes 注册路由
package routes

import (
	"context"

	"socialpulse/app/http/controllers/api"
	"socialpulse/app/http/controllers/api/v1/analytics"
	"socialpulse/app/http/controllers/api/v1/chat"
	"socialpulse/app/http/middlewares"
	"socialpulse/pkg/config"
	"socialpulse/pkg/langflow"
	"socialpulse/pkg/queue"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 路由限流配置
const (
	// 🌍 全局限流：每小时每IP 30000 请求
	GlobalRateLimit = "30000-H"
	// 💬 同步提问限流：每小时每IP 100 请求
	ChatLimit = "100-H"
	// 🔌 连接测试限流：每分钟每IP 10 请求
	PingLimit = "10-M"
	// 🔍 查询类接口限流：每分钟每IP 300 请求
	QueryLimit = "300-M"
)

// Gateway 远程查询网关
type Gateway interface {
	chat.Gateway
	Config() langflow.Config
}

// Services 路由依赖的服务，History、Queue、DBPing 可为空
type Services struct {
	Gateway  Gateway
	Tweaks   langflow.Tweaks
	History  chat.History
	Queue    *queue.QueueService
	Dataset  analytics.PostSource
	DBPing   func(ctx context.Context) error
	Gatherer prometheus.Gatherer
}

// RegisterAPIRoutes 注册所有 API 路由
func RegisterAPIRoutes(r *gin.Engine, s Services) {
	// ❤️ 健康检查与监控指标
	hc := api.NewHealthController(s.Gateway.Config(), s.DBPing, s.Queue)
	r.GET("/health", hc.Show)

	gatherer := s.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := r.Group("/v1")
	v1.Use(
		middlewares.SecurityHeaders(),
		middlewares.LimitIP(config.GetString("app.api_rate_limit", GlobalRateLimit)),
		middlewares.Cors(),
	)

	// 💬 聊天相关路由
	chatRoutes := v1.Group("/chat")
	{
		cc := chat.NewChatController(s.Gateway, s.Tweaks, s.History, s.Queue)

		// POST /v1/chat 同步提问
		chatRoutes.POST("", middlewares.LimitPerRoute(config.GetString("app.chat_rate_limit", ChatLimit)), cc.Store)

		// POST /v1/chat/ping 连接测试
		chatRoutes.POST("/ping", middlewares.LimitPerRoute(PingLimit), cc.Ping)

		// GET /v1/chat/sessions/:session_id/messages 会话历史
		chatRoutes.GET("/sessions/:session_id/messages", middlewares.LimitPerRoute(QueryLimit), cc.History)

		// 📝 异步任务
		chatRoutes.POST("/jobs", middlewares.LimitPerRoute(config.GetString("app.chat_rate_limit", ChatLimit)), cc.StoreJob)
		chatRoutes.GET("/jobs/:id", middlewares.LimitPerRoute(QueryLimit), cc.ShowJob)
	}

	// 📊 仪表盘统计
	analyticsRoutes := v1.Group("/analytics", middlewares.LimitPerRoute(QueryLimit))
	{
		ac := analytics.NewAnalyticsController(s.Dataset)

		analyticsRoutes.GET("/summary", ac.Summary)
		analyticsRoutes.GET("/by-type", ac.ByType)
		analyticsRoutes.GET("/distribution", ac.Distribution)
		analyticsRoutes.GET("/trend", ac.Trend)
		analyticsRoutes.GET("/correlation", ac.Correlation)
		analyticsRoutes.GET("/top", ac.Top)
		analyticsRoutes.GET("/hourly", ac.Hourly)
		analyticsRoutes.GET("/posts", ac.Posts)
	}
}

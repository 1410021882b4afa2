package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialpulse/app/repositories"
	"socialpulse/bootstrap"
	"socialpulse/pkg/config"
	"socialpulse/pkg/database"
	"socialpulse/pkg/langflow"
	"socialpulse/pkg/logger"
	"socialpulse/pkg/queue"
	"socialpulse/routes"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// NewServeCmd 启动 Web 服务
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start web server",
		Args:  cobra.NoArgs,
		RunE:  runWeb,
	}
}

func runWeb(cmd *cobra.Command, args []string) error {
	// 设置 gin 的运行模式，支持 debug, release, test
	// release 会屏蔽调试信息，官方建议生产环境中使用
	// 非 release 模式 gin 终端打印太多信息，干扰到我们程序中的 Log
	gin.SetMode(gin.ReleaseMode)

	// 初始化数据库
	bootstrap.SetupDB()

	// 初始化 Redis，未启用时返回 false
	redisEnabled := bootstrap.SetupRedis()

	gateway, err := bootstrap.SetupLangflow(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("初始化 Langflow 网关失败: %w", err)
	}
	tweaks := langflow.DefaultTweaks()

	// 初始化队列服务
	var queueService *queue.QueueService
	var worker *queue.Worker
	if redisEnabled {
		queueService, worker = bootstrap.SetupQueue(gateway, tweaks)
	}

	router := gin.New()
	bootstrap.SetupRoute(router, routes.Services{
		Gateway:  gateway,
		Tweaks:   tweaks,
		History:  repositories.NewMessageRepository(),
		Queue:    queueService,
		Dataset:  bootstrap.SetupDataset(),
		DBPing:   database.Ping,
		Gatherer: prometheus.DefaultGatherer,
	})

	server := &http.Server{
		Addr:    ":" + config.Get("app.port"),
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.InfoString("Server", "Start", "服务器正在启动，监听端口 "+server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
	case sig := <-quit:
		logger.InfoString("Server", "Shutdown", "正在关闭服务器... 信号: "+sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭服务器，之后等待工作器处理完已取出的任务
	if err := server.Shutdown(ctx); err != nil {
		logger.ErrorString("Server", "Shutdown", "服务器关闭异常: "+err.Error())
	}
	if worker != nil {
		worker.Stop()
	}

	logger.InfoString("Server", "Shutdown", "服务器已成功关闭")
	return nil
}

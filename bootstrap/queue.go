package bootstrap

import (
	"time"

	"socialpulse/app/repositories"
	"socialpulse/pkg/config"
	"socialpulse/pkg/langflow"
	"socialpulse/pkg/logger"
	"socialpulse/pkg/queue"
	"socialpulse/pkg/redis"
)

// SetupQueue 初始化异步任务队列并启动工作器，Redis 未启用时返回 nil
func SetupQueue(gateway queue.Invoker, tweaks langflow.Tweaks) (*queue.QueueService, *queue.Worker) {
	client := redis.GetRedis(redis.QueueDB)
	if client == nil {
		logger.WarnString("Queue", "Setup", "Redis manager not initialized")
		return nil, nil
	}

	queueService := queue.NewQueueService(client, queue.Options{
		Prefix:    config.GetString("queue.prefix"),
		TaskTTL:   time.Duration(config.GetInt("queue.task_ttl", 3600)) * time.Second,
		RateLimit: config.GetFloat64("queue.rate_limit"),
		RateBurst: config.GetInt("queue.rate_burst"),
	})

	worker := queue.NewWorker(queueService, gateway, repositories.NewMessageRepository(), queue.WorkerConfig{
		WorkerCount:     config.GetInt("queue.worker_count", 4),
		ShutdownTimeout: 30 * time.Second,
		Tweaks:          tweaks,
	})
	worker.Start()

	logger.InfoString("Queue", "Setup", "队列服务启动成功")
	return queueService, worker
}

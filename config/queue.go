package config

import "socialpulse/pkg/config"

func init() {
	config.Add("queue", func() map[string]interface{} {
		return map[string]interface{}{
			"prefix":       config.Env("QUEUE_PREFIX", "socialpulse:queue"),
			"rate_limit":   config.Env("QUEUE_RATE_LIMIT", 12),
			"rate_burst":   config.Env("QUEUE_RATE_BURST", 50),
			"worker_count": config.Env("QUEUE_WORKER_COUNT", 4),
			// 任务结果保存时间，单位秒
			"task_ttl": config.Env("QUEUE_TASK_TTL", 3600),
		}
	})
}

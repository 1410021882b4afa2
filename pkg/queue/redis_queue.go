package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"socialpulse/pkg/redis"
)

// ErrRateLimited 入队速度超过限制
var ErrRateLimited = errors.New("queue rate limit exceeded")

// TaskStatus 任务状态
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// ChatTask 异步聊天任务
type ChatTask struct {
	ID        string     `json:"id"`
	SessionID string     `json:"session_id"`
	Query     string     `json:"query"`
	Status    TaskStatus `json:"status"`
	Result    string     `json:"result,omitempty"`
	// 失败时为网关失败类型，Result 存放面向用户的提示信息
	ErrorKind string    `json:"error_kind,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Finished 任务是否已结束
func (t *ChatTask) Finished() bool {
	return t.Status == TaskCompleted || t.Status == TaskFailed
}

// Options 队列配置
type Options struct {
	Prefix    string        // Redis 键前缀
	TaskTTL   time.Duration // 任务记录保存时间
	RateLimit float64       // 每秒入队上限
	RateBurst int
}

// QueueService Redis 队列服务
type QueueService struct {
	client      *redis.RedisClient
	prefix      string
	ttl         time.Duration
	rateLimiter *rate.Limiter
	metrics     *QueueMetrics
}

// NewQueueService 创建新的队列服务实例
func NewQueueService(client *redis.RedisClient, opts Options) *QueueService {
	if opts.Prefix == "" {
		opts.Prefix = "socialpulse:queue"
	}
	if opts.TaskTTL <= 0 {
		opts.TaskTTL = time.Hour
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 1
	}

	return &QueueService{
		client:      client,
		prefix:      opts.Prefix,
		ttl:         opts.TaskTTL,
		rateLimiter: rate.NewLimiter(limit, opts.RateBurst),
		metrics:     NewQueueMetrics(),
	}
}

// Metrics 队列指标
func (q *QueueService) Metrics() *QueueMetrics {
	return q.metrics
}

func (q *QueueService) listKey() string {
	return fmt.Sprintf("%s:tasks", q.prefix)
}

func (q *QueueService) taskKey(taskID string) string {
	return fmt.Sprintf("%s:task:%s", q.prefix, taskID)
}

// PushTask 将任务推送到队列
func (q *QueueService) PushTask(ctx context.Context, task *ChatTask) error {
	// 超过入队速率直接拒绝，不阻塞调用方
	if !q.rateLimiter.Allow() {
		q.metrics.RecordError(OpPush)
		return ErrRateLimited
	}

	start := time.Now()
	defer func() {
		q.metrics.RecordPushLatency(time.Since(start))
	}()

	task.Status = TaskPending
	taskJSON, err := json.Marshal(task)
	if err != nil {
		q.metrics.RecordError(OpPush)
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	// 使用事务确保任务记录与队列一致
	pipe := q.client.Client.TxPipeline()
	pipe.Set(ctx, q.taskKey(task.ID), taskJSON, q.ttl)
	length := pipe.LPush(ctx, q.listKey(), task.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		q.metrics.RecordError(OpPush)
		return fmt.Errorf("failed to push task: %w", err)
	}

	q.metrics.RecordSuccess(OpPush)
	q.metrics.RecordQueueLength(length.Val())
	q.metrics.StartWaitTime(TaskID(task.ID))
	return nil
}

// PopTask 从队列中获取任务，timeout 内没有任务时返回 nil, nil
func (q *QueueService) PopTask(ctx context.Context, timeout time.Duration) (*ChatTask, error) {
	result, err := q.client.Client.BRPop(ctx, timeout, q.listKey()).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to pop task from queue: %w", err)
	}
	if len(result) != 2 {
		return nil, errors.New("invalid result from queue")
	}

	task, err := q.GetTask(ctx, result[1])
	if err != nil {
		return nil, err
	}
	if task == nil {
		// 任务记录已过期
		return nil, nil
	}
	q.metrics.EndWaitTime(TaskID(task.ID))
	return task, nil
}

// SaveTask 更新任务记录
func (q *QueueService) SaveTask(ctx context.Context, task *ChatTask) error {
	task.UpdatedAt = time.Now()
	taskJSON, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}
	if err := q.client.Client.Set(ctx, q.taskKey(task.ID), taskJSON, q.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// GetTask 获取任务，不存在时返回 nil, nil
func (q *QueueService) GetTask(ctx context.Context, taskID string) (*ChatTask, error) {
	raw, err := q.client.Client.Get(ctx, q.taskKey(taskID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	var task ChatTask
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}
	return &task, nil
}

// Length 当前排队的任务数
func (q *QueueService) Length(ctx context.Context) (int64, error) {
	return q.client.Client.LLen(ctx, q.listKey()).Result()
}

// Ping 检查队列服务健康状态
func (q *QueueService) Ping(ctx context.Context) error {
	return q.client.Client.Ping(ctx).Err()
}

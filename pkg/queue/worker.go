package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"socialpulse/app/models/conversation"
	"socialpulse/pkg/langflow"
	"socialpulse/pkg/logger"
)

// Invoker 远程查询网关
type Invoker interface {
	Invoke(ctx context.Context, query string, tweaks langflow.Tweaks) (string, error)
}

// MessageStore 聊天记录存储
type MessageStore interface {
	Create(ctx context.Context, messages ...*conversation.Message) error
}

// Worker 队列工作器
type Worker struct {
	queueService *QueueService
	gateway      Invoker
	store        MessageStore
	metrics      *QueueMetrics
	config       WorkerConfig

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// WorkerConfig 工作器配置
type WorkerConfig struct {
	WorkerCount     int           // 并发工作器数量
	PollTimeout     time.Duration // 单次阻塞取任务的等待时间
	ShutdownTimeout time.Duration // 关闭超时时间
	Tweaks          langflow.Tweaks
}

// NewWorker 创建新的工作器组，store 可为 nil
func NewWorker(qs *QueueService, gateway Invoker, store MessageStore, config WorkerConfig) *Worker {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 4
	}
	if config.PollTimeout <= 0 {
		config.PollTimeout = time.Second
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 30 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		queueService: qs,
		gateway:      gateway,
		store:        store,
		metrics:      qs.Metrics(),
		config:       config,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start 启动工作器组
func (w *Worker) Start() {
	for i := 0; i < w.config.WorkerCount; i++ {
		w.wg.Add(1)
		go w.startWorker(i)
	}
}

// startWorker 启动单个工作器
func (w *Worker) startWorker(id int) {
	defer w.wg.Done()

	logger.InfoString("Worker", "Start", fmt.Sprintf("Worker %d started", id))

	for {
		select {
		case <-w.ctx.Done():
			logger.InfoString("Worker", "Stop", fmt.Sprintf("Worker %d stopping", id))
			return
		default:
		}

		if err := w.processNextTask(); err != nil {
			if w.ctx.Err() != nil {
				continue
			}
			logger.ErrorString("Worker", "Error", fmt.Sprintf("Worker %d error: %v", id, err))
			// 错误恢复延迟
			select {
			case <-w.ctx.Done():
			case <-time.After(time.Second):
			}
		}
	}
}

// processNextTask 取出一个任务并处理，队列为空时返回 nil
func (w *Worker) processNextTask() error {
	task, err := w.queueService.PopTask(w.ctx, w.config.PollTimeout)
	if err != nil {
		return fmt.Errorf("pop task error: %w", err)
	}
	if task == nil {
		return nil
	}
	return w.handleTask(task)
}

// handleTask 处理单个任务，网关只调用一次
func (w *Worker) handleTask(task *ChatTask) error {
	start := time.Now()
	defer func() {
		w.metrics.RecordProcessLatency(time.Since(start))
	}()

	// 已取出的任务在关闭期间也要完成，不使用工作器的 ctx
	ctx := context.Background()

	task.Status = TaskRunning
	if err := w.queueService.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("update task status error: %w", err)
	}

	answer, err := w.gateway.Invoke(ctx, task.Query, w.config.Tweaks)
	reply := conversation.NewAssistantMessage(task.SessionID, answer, "")
	if err != nil {
		w.metrics.RecordError(OpProcess)
		task.Status = TaskFailed
		task.ErrorKind = string(langflow.KindOf(err))
		task.Result = langflow.UserMessage(err)
		reply = conversation.NewAssistantMessage(task.SessionID, task.Result, task.ErrorKind)
	} else {
		w.metrics.RecordSuccess(OpProcess)
		task.Status = TaskCompleted
		task.Result = answer
	}

	if w.store != nil {
		question := conversation.NewUserMessage(task.SessionID, task.Query)
		question.JobID, reply.JobID = task.ID, task.ID
		if err := w.store.Create(ctx, question, reply); err != nil {
			// 不要因为保存失败而影响任务状态
			logger.ErrorString("Worker", "SaveMessage", err.Error())
		}
	}

	if err := w.queueService.SaveTask(ctx, task); err != nil {
		return fmt.Errorf("update task result error: %w", err)
	}
	return nil
}

// Stop 优雅关闭工作器组
func (w *Worker) Stop() {
	w.cancel()

	// 等待所有工作器完成
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.InfoString("Worker", "Stop", "All workers stopped gracefully")
	case <-time.After(w.config.ShutdownTimeout):
		logger.WarnString("Worker", "Stop", "Worker shutdown timed out")
	}
}

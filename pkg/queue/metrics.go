package queue

import (
	"sync"
	"sync/atomic"
	"time"
)

// TaskID 任务ID的类型别名
type TaskID string

// MetricOperation 定义指标操作类型
type MetricOperation string

const (
	OpPush    MetricOperation = "push"
	OpPop     MetricOperation = "pop"
	OpProcess MetricOperation = "process"
)

// LatencyStats 延迟统计
type LatencyStats struct {
	mu    sync.Mutex
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
}

// LatencySnapshot 延迟统计快照，单位毫秒
type LatencySnapshot struct {
	Count int64   `json:"count"`
	AvgMS float64 `json:"avg_ms"`
	MinMS float64 `json:"min_ms"`
	MaxMS float64 `json:"max_ms"`
}

// MetricsSnapshot 队列指标快照
type MetricsSnapshot struct {
	Processed       int64           `json:"processed"`
	Succeeded       int64           `json:"succeeded"`
	Failed          int64           `json:"failed"`
	Pushed          int64           `json:"pushed"`
	PushErrors      int64           `json:"push_errors"`
	AvgWaitMS       int64           `json:"avg_wait_ms"`
	PeakQueueLength int64           `json:"peak_queue_length"`
	Push            LatencySnapshot `json:"push_latency"`
	Process         LatencySnapshot `json:"process_latency"`
}

// QueueMetrics 队列性能指标收集器
type QueueMetrics struct {
	pushed          atomic.Int64
	pushErrors      atomic.Int64
	successfulTasks atomic.Int64
	failedTasks     atomic.Int64

	// 延迟统计
	pushLatency    LatencyStats
	processLatency LatencyStats

	// 队列状态
	avgWaitTime     atomic.Int64 // 平均等待时间(毫秒)
	waitSamples     atomic.Int64
	peakQueueLength atomic.Int64

	// 等待时间计算
	waitTimeStart sync.Map // map[TaskID]time.Time
}

// NewQueueMetrics 创建新的指标收集器
func NewQueueMetrics() *QueueMetrics {
	return &QueueMetrics{}
}

// RecordSuccess 记录成功操作
func (m *QueueMetrics) RecordSuccess(op MetricOperation) {
	switch op {
	case OpPush:
		m.pushed.Add(1)
	case OpProcess:
		m.successfulTasks.Add(1)
	}
}

// RecordError 记录失败操作
func (m *QueueMetrics) RecordError(op MetricOperation) {
	switch op {
	case OpPush:
		m.pushErrors.Add(1)
	case OpProcess:
		m.failedTasks.Add(1)
	}
}

// StartWaitTime 记录任务开始等待的时间
func (m *QueueMetrics) StartWaitTime(taskID TaskID) {
	m.waitTimeStart.Store(taskID, time.Now())
}

// EndWaitTime 计算并更新平均等待时间
func (m *QueueMetrics) EndWaitTime(taskID TaskID) {
	startTime, ok := m.waitTimeStart.LoadAndDelete(taskID)
	if !ok {
		return
	}
	waitDuration := time.Since(startTime.(time.Time))

	// 增量更新平均值
	for {
		currentAvg := m.avgWaitTime.Load()
		samples := m.waitSamples.Load()
		newAvg := (currentAvg*samples + waitDuration.Milliseconds()) / (samples + 1)
		if m.avgWaitTime.CompareAndSwap(currentAvg, newAvg) {
			m.waitSamples.Add(1)
			return
		}
	}
}

// RecordQueueLength 记录队列长度峰值
func (m *QueueMetrics) RecordQueueLength(length int64) {
	for {
		peak := m.peakQueueLength.Load()
		if length <= peak || m.peakQueueLength.CompareAndSwap(peak, length) {
			return
		}
	}
}

// RecordPushLatency 记录推送延迟
func (m *QueueMetrics) RecordPushLatency(d time.Duration) {
	m.pushLatency.record(d)
}

// RecordProcessLatency 记录处理延迟
func (m *QueueMetrics) RecordProcessLatency(d time.Duration) {
	m.processLatency.record(d)
}

// Snapshot 返回当前指标
func (m *QueueMetrics) Snapshot() MetricsSnapshot {
	succeeded, failed := m.successfulTasks.Load(), m.failedTasks.Load()
	return MetricsSnapshot{
		Processed:       succeeded + failed,
		Succeeded:       succeeded,
		Failed:          failed,
		Pushed:          m.pushed.Load(),
		PushErrors:      m.pushErrors.Load(),
		AvgWaitMS:       m.avgWaitTime.Load(),
		PeakQueueLength: m.peakQueueLength.Load(),
		Push:            m.pushLatency.snapshot(),
		Process:         m.processLatency.snapshot(),
	}
}

// record 记录延迟数据
func (s *LatencyStats) record(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	s.total += d
	if s.min == 0 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
}

func (s *LatencyStats) snapshot() LatencySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := LatencySnapshot{
		Count: s.count,
		MinMS: ms(s.min),
		MaxMS: ms(s.max),
	}
	if s.count > 0 {
		snap.AvgMS = ms(s.total) / float64(s.count)
	}
	return snap
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

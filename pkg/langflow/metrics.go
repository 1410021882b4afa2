package langflow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// outcomeSuccess 成功调用的标签值
const outcomeSuccess = "success"

// Metrics 网关调用指标
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics 创建并注册指标，reg 为 nil 时只创建不注册
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "socialpulse",
				Subsystem: "langflow",
				Name:      "requests_total",
				Help:      "Total number of gateway invocations by outcome",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "socialpulse",
				Subsystem: "langflow",
				Name:      "request_duration_seconds",
				Help:      "Duration of gateway invocations",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
			},
			[]string{"outcome"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}
	return m
}

// observe 记录一次调用结果，err 为 nil 时记为 success
func (m *Metrics) observe(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := outcomeSuccess
	if kind := KindOf(err); kind != "" {
		outcome = string(kind)
	}
	m.requests.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// Requests 指定结果的调用次数计数器，主要用于测试和健康检查
func (m *Metrics) Requests(outcome string) prometheus.Counter {
	return m.requests.WithLabelValues(outcome)
}

// Package langflow 封装对托管 Langflow 聊天流程的调用
//
// 每次 Invoke 只发送一次 POST，不做重试也不缓存结果；
// 所有预期内的失败都转换为 *Error 返回，调用方据此展示提示信息。
package langflow

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"socialpulse/pkg/helpers"
	"socialpulse/pkg/logger"
)

// connectionTestQuery 连接测试时发送的问题
const connectionTestQuery = "test"

// Gateway 远程查询网关，可并发使用
type Gateway struct {
	cfg     Config
	client  *resty.Client
	metrics *Metrics
}

// Option 网关可选项
type Option func(*Gateway)

// WithMetrics 记录调用指标
func WithMetrics(m *Metrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// WithTransport 替换底层 RoundTripper
func WithTransport(rt http.RoundTripper) Option {
	return func(g *Gateway) {
		g.client.SetTransport(rt)
	}
}

// NewGateway 创建网关。配置不完整时仍返回实例，Invoke 会直接返回 KindConfiguration。
func NewGateway(cfg Config, opts ...Option) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	// 交互式调用，远端流程不保证幂等，因此关闭重试
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0)

	g := &Gateway{
		cfg:    cfg,
		client: client,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Config 返回网关配置副本
func (g *Gateway) Config() Config {
	return g.cfg
}

// Invoke 发送问题并返回答案文本
func (g *Gateway) Invoke(ctx context.Context, query string, tweaks Tweaks) (string, error) {
	start := time.Now()
	answer, err := g.invoke(ctx, query, tweaks)
	elapsed := time.Since(start)
	g.metrics.observe(err, elapsed)

	if err != nil {
		logger.ErrorString("Langflow", "Error", fmt.Sprintf(
			"请求失败 地址:%s 类型:%s 耗时:%v 错误:%v",
			helpers.ShortenURL(g.cfg.BaseURL), KindOf(err), elapsed, err))
		return "", err
	}

	logger.InfoString("Langflow", "Success", fmt.Sprintf(
		"请求成功 地址:%s 耗时:%v 结果长度:%d",
		helpers.ShortenURL(g.cfg.BaseURL), elapsed, len(answer)))
	return answer, nil
}

// TestConnection 发送一条测试问题，检查凭证和流程地址是否可用
func (g *Gateway) TestConnection(ctx context.Context) error {
	_, err := g.Invoke(ctx, connectionTestQuery, nil)
	return err
}

func (g *Gateway) invoke(ctx context.Context, query string, tweaks Tweaks) (string, error) {
	// 缺少凭证时不发起网络请求
	if err := g.cfg.Validate(); err != nil {
		return "", err
	}

	if tweaks == nil {
		tweaks = Tweaks{}
	}
	payload := RunRequest{
		InputValue: query,
		OutputType: chatMode,
		InputType:  chatMode,
		Tweaks:     tweaks,
	}
	logger.DebugJSON("Langflow", "Payload", payload)

	resp, err := g.client.R().
		SetContext(ctx).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", g.cfg.Token)).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(g.cfg.Endpoint())
	if err != nil {
		return "", classifyTransportError(err)
	}

	logger.DebugString("Langflow", "Response", fmt.Sprintf(
		"状态:%d 响应长度:%d", resp.StatusCode(), len(resp.Body())))

	if err := classifyStatus(resp.StatusCode()); err != nil {
		return "", err
	}
	return Extract(g.cfg.Shape, resp.Body())
}

// classifyTransportError 区分超时与其他传输错误
func classifyTransportError(err error) *Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return newError(KindTimeout, MsgTimeout, err)
	}
	return newError(KindConnection, MsgConnection, err)
}

// classifyStatus 非 2xx 状态码映射为对应的失败类型，2xx 返回 nil
func classifyStatus(status int) *Error {
	switch {
	case status == http.StatusInternalServerError:
		return statusError(KindServer, status, MsgServer)
	case status == http.StatusUnauthorized:
		return statusError(KindAuthentication, status, MsgAuthentication)
	case status == http.StatusNotFound:
		return statusError(KindNotFound, status, MsgNotFound)
	case status < 200 || status > 299:
		return statusError(KindUnexpectedStatus, status, fmt.Sprintf(MsgUnexpectedStatus, status))
	}
	return nil
}

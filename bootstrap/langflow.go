package bootstrap

import (
	"fmt"
	"time"

	"socialpulse/pkg/config"
	"socialpulse/pkg/helpers"
	"socialpulse/pkg/langflow"
	"socialpulse/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
)

// LangflowConfig 从配置读取网关参数，响应结构名称无效时返回错误
func LangflowConfig() (langflow.Config, error) {
	shape, err := langflow.ParseShape(config.GetString("langflow.response_shape"))
	if err != nil {
		return langflow.Config{}, err
	}

	return langflow.Config{
		BaseURL:    config.GetString("langflow.base_url"),
		WorkflowID: config.GetString("langflow.workflow_id"),
		FlowID:     config.GetString("langflow.flow_id"),
		Token:      config.GetString("langflow.application_token"),
		Timeout:    time.Duration(config.GetInt("langflow.timeout", 30)) * time.Second,
		Shape:      shape,
	}, nil
}

// SetupLangflow 初始化远程查询网关，reg 为 nil 时不注册指标
// 配置不完整时仍返回网关，调用会得到 configuration 错误
func SetupLangflow(reg prometheus.Registerer) (*langflow.Gateway, error) {
	logger.InfoString("Langflow", "Setup", "正在初始化 Langflow 网关...")

	cfg, err := LangflowConfig()
	if err != nil {
		return nil, err
	}

	// 记录当前配置值（用于调试）
	logger.DebugString("Langflow", "Config", fmt.Sprintf(
		"当前配置: BaseURL=%s, WorkflowID=%s, FlowID=%s, Token=%s, Timeout=%v, Shape=%s",
		helpers.ShortenURL(cfg.BaseURL),
		cfg.WorkflowID,
		cfg.FlowID,
		helpers.MaskSecret(cfg.Token),
		cfg.Timeout,
		cfg.Shape,
	))

	if err := cfg.Validate(); err != nil {
		logger.WarnString("Langflow", "Config", "配置不完整，提问将直接返回配置错误: "+err.Error())
	}

	var opts []langflow.Option
	if reg != nil {
		opts = append(opts, langflow.WithMetrics(langflow.NewMetrics(reg)))
	}
	return langflow.NewGateway(cfg, opts...), nil
}

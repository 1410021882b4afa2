package langflow

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimeout 单次调用的最长等待时间
const DefaultTimeout = 30 * time.Second

// chatMode 输入输出类型标识
const chatMode = "chat"

// Shape 部署返回的响应结构
type Shape int

const (
	// FlatShape {"response": "..."}
	FlatShape Shape = iota
	// NestedShape outputs[0].outputs[0].results.message.text
	NestedShape
)

func (s Shape) String() string {
	switch s {
	case FlatShape:
		return "flat"
	case NestedShape:
		return "nested"
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// ParseShape 解析配置中的响应结构名称
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "flat":
		return FlatShape, nil
	case "nested":
		return NestedShape, nil
	}
	return FlatShape, fmt.Errorf("unknown response shape: %q", name)
}

// Config 网关配置，进程启动时构造一次，之后只读
type Config struct {
	BaseURL    string
	WorkflowID string // Langflow ID
	FlowID     string // 子流程 ID
	Token      string // Bearer Token
	Timeout    time.Duration
	Shape      Shape
}

// Validate 检查必填项，缺失时返回 KindConfiguration
func (c Config) Validate() error {
	var missing []string
	if c.BaseURL == "" {
		missing = append(missing, "base url")
	}
	if c.WorkflowID == "" {
		missing = append(missing, "workflow id")
	}
	if c.FlowID == "" {
		missing = append(missing, "flow id")
	}
	if c.Token == "" {
		missing = append(missing, "application token")
	}
	if len(missing) > 0 {
		return newError(KindConfiguration, MsgConfiguration,
			fmt.Errorf("missing %s", strings.Join(missing, ", ")))
	}
	return nil
}

// Endpoint 拼接运行地址 {baseURL}/lf/{workflowId}/api/v1/run/{flowId}
func (c Config) Endpoint() string {
	return fmt.Sprintf("%s/lf/%s/api/v1/run/%s",
		strings.TrimRight(c.BaseURL, "/"), c.WorkflowID, c.FlowID)
}

// Tweaks 节点 ID 到覆盖参数的映射，原样透传给远端
type Tweaks map[string]map[string]interface{}

// DefaultTweaks 仪表盘使用的流程节点，覆盖参数均为空
func DefaultTweaks() Tweaks {
	return Tweaks{
		"File-jxj7K":                    {},
		"SplitText-7gH6I":               {},
		"ChatInput-Rpb6P":               {},
		"ParseData-EJyoR":               {},
		"CombineText-GqK4e":             {},
		"TextInput-OUxuk":               {},
		"GoogleGenerativeAIModel-xLOg8": {},
		"ChatOutput-EPD4q":              {},
		"AstraDB-brZ4Z":                 {},
	}
}

// RunRequest Langflow 运行请求体
type RunRequest struct {
	InputValue string `json:"input_value"`
	OutputType string `json:"output_type"`
	InputType  string `json:"input_type"`
	Tweaks     Tweaks `json:"tweaks"`
}

// flatResponse {"response": "..."}
type flatResponse struct {
	Response *string `json:"response"`
}

// nestedResponse 只保留取答案需要的字段
type nestedResponse struct {
	Outputs []struct {
		Outputs []struct {
			Results struct {
				Message *struct {
					Text *string `json:"text"`
				} `json:"message"`
			} `json:"results"`
		} `json:"outputs"`
	} `json:"outputs"`
}

package config

import "socialpulse/pkg/config"

func init() {
	config.Add("langflow", func() map[string]interface{} {
		return map[string]interface{}{
			// 托管服务地址，例如 https://api.langflow.astra.datastax.com
			"base_url": config.Env("LANGFLOW_BASE_URL", ""),

			// 工作区 ID 与流程 ID
			"workflow_id": config.Env("LANGFLOW_ID", ""),
			"flow_id":     config.Env("LANGFLOW_FLOW_ID", ""),

			// Bearer Token
			"application_token": config.Env("LANGFLOW_APPLICATION_TOKEN", ""),

			// 单次调用超时，单位秒
			"timeout": config.Env("LANGFLOW_TIMEOUT", 30),

			// 响应结构：flat 或 nested
			"response_shape": config.Env("LANGFLOW_RESPONSE_SHAPE", "flat"),
		}
	})
}

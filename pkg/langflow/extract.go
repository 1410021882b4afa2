package langflow

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errMissingAnswer = errors.New("answer path not found in response")

// Extract 按部署约定的响应结构取出答案文本。
// 路径缺失时返回 KindMalformedResponse，不会退化为空字符串。
func Extract(shape Shape, body []byte) (string, error) {
	switch shape {
	case FlatShape:
		var resp flatResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", newError(KindMalformedResponse, MsgMalformedResponse, fmt.Errorf("decode response: %w", err))
		}
		if resp.Response == nil {
			return "", newError(KindMalformedResponse, MsgMalformedResponse, fmt.Errorf("%w: response", errMissingAnswer))
		}
		return *resp.Response, nil

	case NestedShape:
		var resp nestedResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", newError(KindMalformedResponse, MsgMalformedResponse, fmt.Errorf("decode response: %w", err))
		}
		if len(resp.Outputs) == 0 || len(resp.Outputs[0].Outputs) == 0 {
			return "", newError(KindMalformedResponse, MsgMalformedResponse, fmt.Errorf("%w: outputs[0].outputs[0]", errMissingAnswer))
		}
		msg := resp.Outputs[0].Outputs[0].Results.Message
		if msg == nil || msg.Text == nil {
			return "", newError(KindMalformedResponse, MsgMalformedResponse, fmt.Errorf("%w: results.message.text", errMissingAnswer))
		}
		return *msg.Text, nil
	}

	return "", newError(KindConfiguration, MsgConfiguration, fmt.Errorf("unsupported response shape %s", shape))
}

package langflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name   string
		shape  Shape
		body   string
		answer string
		ok     bool
	}{
		{"flat", FlatShape, `{"response":"hello"}`, "hello", true},
		{"flat empty text is an answer", FlatShape, `{"response":""}`, "", true},
		{"flat missing key", FlatShape, `{"answer":"hello"}`, "", false},
		{"flat null", FlatShape, `null`, "", false},
		{"flat wrong type", FlatShape, `{"response":42}`, "", false},
		{"flat array body", FlatShape, `["hello"]`, "", false},
		{"nested", NestedShape, nestedHi, "hi", true},
		{"nested no outputs", NestedShape, `{"outputs":[]}`, "", false},
		{"nested no inner outputs", NestedShape, `{"outputs":[{"outputs":[]}]}`, "", false},
		{"nested no message", NestedShape, `{"outputs":[{"outputs":[{"results":{}}]}]}`, "", false},
		{"nested no text", NestedShape, `{"outputs":[{"outputs":[{"results":{"message":{"sender":"AI"}}}]}]}`, "", false},
		{"nested garbage", NestedShape, `not json`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, err := Extract(tt.shape, []byte(tt.body))
			assert.Equal(t, tt.answer, answer)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrMalformedResponse)
				assert.Equal(t, MsgMalformedResponse, UserMessage(err))
			}
		})
	}
}

func TestExtractUsesFirstOutputOnly(t *testing.T) {
	body := `{"outputs":[
		{"outputs":[{"results":{"message":{"text":"first"}}},{"results":{"message":{"text":"second"}}}]},
		{"outputs":[{"results":{"message":{"text":"third"}}}]}
	]}`
	answer, err := Extract(NestedShape, []byte(body))
	assert.NoError(t, err)
	assert.Equal(t, "first", answer)
}

func TestExtractUnknownShape(t *testing.T) {
	_, err := Extract(Shape(9), []byte(`{}`))
	assert.Equal(t, KindConfiguration, KindOf(err))
}

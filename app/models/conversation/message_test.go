package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageValidate(t *testing.T) {
	assert.NoError(t, NewUserMessage("s1", "hello").Validate())
	assert.NoError(t, NewAssistantMessage("s1", "", "timeout").Validate())

	assert.Error(t, NewUserMessage("", "hello").Validate())
	assert.Error(t, (&Message{SessionID: "s1", Role: "system"}).Validate())
}

func TestMessageIsFailed(t *testing.T) {
	assert.False(t, NewAssistantMessage("s1", "answer", "").IsFailed())
	assert.True(t, NewAssistantMessage("s1", "timed out", "timeout").IsFailed())
}

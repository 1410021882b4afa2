package langflow

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("chat: %w", statusError(KindNotFound, 404, MsgNotFound))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrServer)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, MsgNotFound, UserMessage(err))
}

func TestErrorString(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	assert.Equal(t, "langflow: connection: dial tcp: refused", newError(KindConnection, MsgConnection, cause).Error())
	assert.Equal(t, "langflow: server (status 500)", statusError(KindServer, 500, MsgServer).Error())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	assert.ErrorIs(t, newError(KindConnection, MsgConnection, cause), cause)
}

func TestSoftOnlyForServerErrors(t *testing.T) {
	assert.True(t, ErrServer.Soft())
	for _, e := range []*Error{ErrConfiguration, ErrTimeout, ErrConnection, ErrAuthentication, ErrNotFound, ErrUnexpectedStatus, ErrMalformedResponse} {
		assert.False(t, e.Soft(), e.Kind)
	}
}

func TestKindOfForeignError(t *testing.T) {
	err := errors.New("plain")
	assert.Equal(t, Kind(""), KindOf(err))
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, MsgMalformedResponse, UserMessage(err))
}

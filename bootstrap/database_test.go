package bootstrap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "socialpulse.db", sqliteDSN("socialpulse.db", 0))
	assert.Equal(t, "socialpulse.db?_busy_timeout=5000", sqliteDSN("socialpulse.db", 5000))
	assert.Equal(t, "file:chat.db?cache=shared&_busy_timeout=100", sqliteDSN("file:chat.db?cache=shared", 100))
}

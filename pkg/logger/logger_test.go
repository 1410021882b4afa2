package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHelpersAreSafeBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		InfoString("Langflow", "Request", "before init")
		LogIf(errors.New("boom"))
		DebugJSON("Langflow", "payload", map[string]string{"a": "b"})
	})
}

func TestInitLoggerWritesToFile(t *testing.T) {
	previous := Logger
	t.Cleanup(func() {
		Logger = previous
		zap.ReplaceGlobals(previous)
	})

	filename := filepath.Join(t.TempDir(), "logs.log")
	InitLogger(filename, 1, 1, 1, false, "single", "debug")

	InfoString("Langflow", "Request", "hello file")
	require.NoError(t, Logger.Sync())

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
	assert.Contains(t, string(data), `"level":"INFO"`)
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvFallsBackToDefault(t *testing.T) {
	assert.Equal(t, "fallback", Env("SOCIALPULSE_TEST_UNSET", "fallback"))
	assert.Nil(t, Env("SOCIALPULSE_TEST_UNSET"))
}

func TestEnvReadsSystemEnvironment(t *testing.T) {
	t.Setenv("SOCIALPULSE_TEST_TOKEN", "secret")
	assert.Equal(t, "secret", Env("SOCIALPULSE_TEST_TOKEN", ""))
}

func TestAddAndLoadConfig(t *testing.T) {
	t.Setenv("SOCIALPULSE_TEST_TIMEOUT", "45")
	Add("testarea", func() map[string]interface{} {
		return map[string]interface{}{
			"timeout": Env("SOCIALPULSE_TEST_TIMEOUT", 30),
			"shape":   Env("SOCIALPULSE_TEST_SHAPE", "flat"),
			"enabled": Env("SOCIALPULSE_TEST_ENABLED", true),
		}
	})
	loadConfig()

	assert.Equal(t, 45, GetInt("testarea.timeout"))
	assert.Equal(t, "flat", GetString("testarea.shape"))
	assert.True(t, GetBool("testarea.enabled"))
	assert.Equal(t, "dflt", Get("testarea.missing", "dflt"))
}

func TestSet(t *testing.T) {
	Set("unit.value", "7")
	assert.Equal(t, 7, GetInt("unit.value"))
	assert.Equal(t, int64(7), GetInt64("unit.value"))
	assert.Equal(t, 7.0, GetFloat64("unit.value"))
}

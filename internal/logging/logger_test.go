package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerCachesPerComponent(t *testing.T) {
	require.NoError(t, Configure(Config{Stderr: "never"}))

	a := NewLogger("store")
	b := NewLogger("store")
	c := NewLogger("api")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, "store", a.Data["component"])
	assert.Equal(t, "api", c.Data["component"])
}

func TestConfigureLevel(t *testing.T) {
	t.Setenv("TODO_LOG_LEVEL", "")

	require.NoError(t, Configure(Config{Level: "debug", Stderr: "never"}))
	assert.Equal(t, logrus.DebugLevel, NewLogger("lvl").Logger.GetLevel())

	t.Setenv("TODO_LOG_LEVEL", "error")
	require.NoError(t, Configure(Config{Level: "debug", Stderr: "never"}))
	assert.Equal(t, logrus.ErrorLevel, NewLogger("lvl").Logger.GetLevel())
}

func TestConfigureRejectsBadInput(t *testing.T) {
	t.Setenv("TODO_LOG_LEVEL", "")

	assert.Error(t, Configure(Config{Level: "loud"}))
	assert.Error(t, Configure(Config{Format: "xml"}))
}

func TestFileSink(t *testing.T) {
	t.Setenv("TODO_LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "logs", "todo.log")

	require.NoError(t, Configure(Config{Format: "json", File: path, Stderr: "never"}))
	NewLogger("file").WithField("id", 7).Info("hello")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"component":"file"`)
	assert.Contains(t, string(data), `"id":7`)
}

func TestToStderr(t *testing.T) {
	assert.True(t, toStderr("always", true))
	assert.False(t, toStderr("never", false))
	assert.True(t, toStderr("auto", false))
	assert.False(t, toStderr("", true))
}

func TestDebugStaysOffTerminal(t *testing.T) {
	assert.False(t, toStderr("auto", true), "debug output must not draw over a terminal UI")
}

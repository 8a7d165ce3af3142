package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://localhost:3000", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout())
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_url: http://todo.internal:8080
theme: neon
log:
  level: debug
  format: json
server:
  addr: ":9000"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://todo.internal:8080", cfg.APIURL)
	assert.Equal(t, "neon", cfg.Theme)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "10s", cfg.Timeout, "unset keys keep defaults")
	assert.Equal(t, "todos.json", cfg.Server.DataFile)
}

func TestLoadTOML(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(`
api_url = "https://todo.example.com"
timeout = "3s"
no_color = true

[server]
data_file = "/tmp/todos.json"
`), ".toml")
	require.NoError(t, err)
	assert.Equal(t, "https://todo.example.com", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout())
	assert.True(t, cfg.NoColor)
	assert.Equal(t, "/tmp/todos.json", cfg.Server.DataFile)
	assert.Equal(t, ":3000", cfg.Server.Addr)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TODO_TEST_HOST", "api.test")
	cfg, err := LoadFromBytes([]byte("api_url: http://${TODO_TEST_HOST}\n"), ".yaml")
	require.NoError(t, err)
	assert.Equal(t, "http://api.test", cfg.APIURL)
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadFromBytes([]byte("a = 1"), ".ini")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadFromBytes([]byte("api_url: [unclosed"), ".yml")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadFromBytes([]byte("api_url = "), ".toml")
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	assert.Equal(t, "", Find(dir))

	xdg := filepath.Join(dir, "xdg", "todo")
	require.NoError(t, os.MkdirAll(xdg, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(xdg, "config.toml"), nil, 0o644))
	assert.Equal(t, filepath.Join(xdg, "config.toml"), Find(dir))

	local := filepath.Join(dir, "todo.yaml")
	require.NoError(t, os.WriteFile(local, nil, 0o644))
	assert.Equal(t, local, Find(dir), "working directory wins")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("TODO_API_URL", "http://env:1")
	t.Setenv("TODO_TIMEOUT", "2s")
	t.Setenv("TODO_THEME", "mono")
	t.Setenv("NO_COLOR", "1")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "http://env:1", cfg.APIURL)
	assert.Equal(t, "2s", cfg.Timeout)
	assert.Equal(t, "mono", cfg.Theme)
	assert.True(t, cfg.NoColor)
}

func TestApplyFlagsOnlyChanged(t *testing.T) {
	fs := pflag.NewFlagSet("todo", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--theme", "neon", "--no-color", "--log-level=warn"}))

	cfg := Default()
	cfg.APIURL = "http://from-file:1"
	require.NoError(t, cfg.ApplyFlags(fs))

	assert.Equal(t, "http://from-file:1", cfg.APIURL, "unset flag keeps file value")
	assert.Equal(t, "neon", cfg.Theme)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad url", func(c *Config) { c.APIURL = "localhost:3000" }},
		{"no host", func(c *Config) { c.APIURL = "http://" }},
		{"bad timeout", func(c *Config) { c.Timeout = "soon" }},
		{"zero timeout", func(c *Config) { c.Timeout = "0s" }},
		{"bad theme", func(c *Config) { c.Theme = "pastel" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

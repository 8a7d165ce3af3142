// Package config loads client and dev-backend settings. Values come from,
// in increasing precedence: defaults, a YAML or TOML file, TODO_* environment
// variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/todoclient/internal/api"
	"github.com/idilsaglam/todoclient/internal/logging"
)

// ErrInvalidConfig wraps every load and validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the application configuration.
type Config struct {
	APIURL  string         `yaml:"api_url" toml:"api_url"`
	Timeout string         `yaml:"timeout" toml:"timeout"`
	Theme   string         `yaml:"theme" toml:"theme"`
	NoColor bool           `yaml:"no_color" toml:"no_color"`
	Log     logging.Config `yaml:"log" toml:"log"`
	Server  ServerConfig   `yaml:"server" toml:"server"`
}

// ServerConfig configures `todo serve`.
type ServerConfig struct {
	Addr     string `yaml:"addr" toml:"addr"`
	DataFile string `yaml:"data_file" toml:"data_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		APIURL:  api.DefaultBaseURL,
		Timeout: "10s",
		Theme:   "classic",
		Log:     logging.Config{Level: "info", Format: "text", Stderr: "auto"},
		Server: ServerConfig{
			Addr:     ":3000",
			DataFile: "todos.json",
		},
	}
}

// FileNames are searched, in order, in the working directory and then in
// the user config directory (as config.yml, config.yaml, config.toml).
var FileNames = []string{"todo.yml", "todo.yaml", "todo.toml"}

// Load reads the file at path on top of the defaults. The format follows the
// extension: .yml/.yaml or .toml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidConfig, path, err)
	}
	cfg, err := LoadFromBytes(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromBytes decodes data in the format named by ext on top of the defaults.
func LoadFromBytes(data []byte, ext string) (*Config, error) {
	cfg := Default()
	expanded := []byte(os.ExpandEnv(string(data)))

	switch strings.ToLower(ext) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(expanded, cfg); err != nil {
			return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidConfig, err)
		}
	case ".toml":
		if err := toml.Unmarshal(expanded, cfg); err != nil {
			return nil, fmt.Errorf("%w: failed to parse TOML: %v", ErrInvalidConfig, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, ext)
	}
	return cfg, nil
}

// Find returns the first config file found from startDir, then from the user
// config directory. It returns "" when there is none.
func Find(startDir string) string {
	for _, name := range FileNames {
		p := filepath.Join(startDir, name)
		if fileExists(p) {
			return p
		}
	}
	dir := userConfigDir()
	if dir == "" {
		return ""
	}
	for _, name := range []string{"config.yml", "config.yaml", "config.toml"} {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// LoadDefault loads the file Find locates from the working directory, or the
// defaults when there is no file.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("%w: getwd: %v", ErrInvalidConfig, err)
	}
	if p := Find(cwd); p != "" {
		return Load(p)
	}
	return Default(), nil
}

// ApplyEnv overrides values from TODO_API_URL, TODO_TIMEOUT, TODO_THEME and
// NO_COLOR. TODO_LOG_LEVEL is read by the logging package.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("TODO_API_URL"); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv("TODO_TIMEOUT"); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv("TODO_THEME"); v != "" {
		c.Theme = v
	}
	if os.Getenv("NO_COLOR") != "" {
		c.NoColor = true
	}
}

// RegisterFlags defines the client flags on fs with the built-in defaults.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("api-url", d.APIURL, "Base URL of the todo API")
	fs.String("timeout", d.Timeout, "Per-request timeout")
	fs.String("theme", d.Theme, "Output theme: classic, neon or mono")
	fs.Bool("no-color", false, "Disable colored output")
	fs.String("log-level", d.Log.Level, "Log level: debug, info, warn, error")
	fs.String("log-format", d.Log.Format, "Log format: text or json")
	fs.String("log-file", "", "Append logs to this file")
}

// ApplyFlags copies the flags the user actually set on fs into c.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	strs := map[string]*string{
		"api-url":    &c.APIURL,
		"timeout":    &c.Timeout,
		"theme":      &c.Theme,
		"log-level":  &c.Log.Level,
		"log-format": &c.Log.Format,
		"log-file":   &c.Log.File,
	}
	for name, dst := range strs {
		if fs.Lookup(name) == nil || !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return fmt.Errorf("%w: flag --%s: %v", ErrInvalidConfig, name, err)
		}
		*dst = v
	}
	if fs.Lookup("no-color") != nil && fs.Changed("no-color") {
		v, err := fs.GetBool("no-color")
		if err != nil {
			return fmt.Errorf("%w: flag --no-color: %v", ErrInvalidConfig, err)
		}
		c.NoColor = v
	}
	return nil
}

// Validate checks the values that would otherwise fail late.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api_url %q must be an http(s) URL", ErrInvalidConfig, c.APIURL)
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("%w: timeout %q must be a positive duration", ErrInvalidConfig, c.Timeout)
	}
	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("%w: unknown theme %q", ErrInvalidConfig, c.Theme)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// RequestTimeout returns the parsed timeout, falling back to 10s.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "todo")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "todo")
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

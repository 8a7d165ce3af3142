package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Config selects level, format and sinks for every component logger.
type Config struct {
	// Level is the minimum level ("debug", "info", "warn", "error").
	// TODO_LOG_LEVEL overrides it.
	Level string `yaml:"level" toml:"level"`
	// Format is "text" (default) or "json".
	Format string `yaml:"format" toml:"format"`
	// File appends logs to the given path when set.
	File string `yaml:"file" toml:"file"`
	// Stderr is "auto" (default), "always" or "never". In auto mode logs reach
	// stderr only when stderr is not a terminal, whatever the level, so the
	// TUI and the CLI panels stay readable. Use File to keep debug output.
	Stderr string `yaml:"stderr" toml:"stderr"`
}

var (
	mu      sync.Mutex
	base    *logrus.Logger
	logFile *os.File
	loggers = make(map[string]*logrus.Entry)
)

// Configure rebuilds the shared logger. Loggers handed out earlier keep
// pointing at the previous logger, so call it before NewLogger.
func Configure(cfg Config) error {
	l, f, err := build(cfg)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
	}
	base, logFile = l, f
	loggers = make(map[string]*logrus.Entry)
	return nil
}

// NewLogger returns the logger for a component, creating it on first use.
func NewLogger(component string) *logrus.Entry {
	mu.Lock()
	defer mu.Unlock()

	if entry, ok := loggers[component]; ok {
		return entry
	}
	if base == nil {
		l, _, err := build(Config{})
		if err != nil {
			l = logrus.New()
			l.SetOutput(io.Discard)
		}
		base = l
	}
	entry := base.WithField("component", component)
	loggers[component] = entry
	return entry
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// Close releases the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func build(cfg Config) (*logrus.Logger, *os.File, error) {
	logger := logrus.New()

	levelStr := "info"
	if env := os.Getenv("TODO_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if cfg.Level != "" {
		levelStr = cfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level %q: %w", levelStr, err)
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	var writers []io.Writer
	var file *os.File
	if cfg.File != "" {
		p := expandPath(cfg.File)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		file, err = os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, file)
	}

	if toStderr(cfg.Stderr, stderrIsTerminal()) {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}
	return logger, file, nil
}

func toStderr(mode string, interactive bool) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return !interactive
}

func stderrIsTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

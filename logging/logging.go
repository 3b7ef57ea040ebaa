// Package logging configures the process-wide slog logger. Logs go to a
// date-stamped file under the data directory; dev mode mirrors them to
// stderr as human-readable text.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

// Config holds logger configuration.
type Config struct {
	Dir     string // directory for log files
	Level   string // debug, info, warn or error
	DevMode bool   // also write text logs to stderr
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init opens today's log file and installs the resulting logger as the
// slog default. The returned closer releases the file handle.
func Init(cfg Config) (*slog.Logger, func() error, error) {
	if err := os.MkdirAll(cfg.Dir, dirPermissions); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	name := fmt.Sprintf("promptvault-%s.log", time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(cfg.Dir, name),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, filePermissions)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	level := ParseLevel(cfg.Level)
	var handler slog.Handler = slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	if cfg.DevMode {
		handler = slog.NewTextHandler(io.MultiWriter(file, os.Stderr), &slog.HandlerOptions{Level: level})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, file.Close, nil
}

// Package logger installs the process-wide slog handler.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/lumberjack.v2"

	"dugout/internal/config"
)

// Init writes JSON records to stdout and, when cfg.File is set, to a rotating file.
// POST: slog.Default uses the new handler; the returned closer releases the log file
func Init(cfg config.LogConfig) io.Closer {
	var writers []io.Writer
	if cfg.Console {
		writers = append(writers, os.Stdout)
	}
	var file *lumberjack.Logger
	if cfg.File != "" {
		file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		}
		writers = append(writers, file)
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	slog.SetDefault(New(io.MultiWriter(writers...), cfg.Level))
	slog.Info("logger_event", "event", "initialized", "level", cfg.Level, "file", cfg.File)

	if file == nil {
		return nopCloser{}
	}
	return file
}

// New builds a JSON logger at the named level.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps a config level name onto slog; unknown names select info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Package log provides the structured logger used by everything outside
// the deconflict core: the HTTP API, the ingestion adapter, and the CLI
// entry points. The core pipeline package never imports this package
// (see deconflict.Engine) — it exposes metrics instead of logging.
package log

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps slog.Logger with call-stack annotation and a nil-safe
// Debug/Info so that a *Logger obtained from a context that chose not to
// log can still be called without a nil check at every call site.
type Logger struct {
	*slog.Logger
	LogFile string
	Start   time.Time
}

// New builds a Logger that writes rotated JSON lines to dir (or a
// sensible per-mode default when dir is empty). server distinguishes the
// long-running HTTP/ingestion processes from short-lived CLI runs, which
// get a smaller log file except at debug level.
func New(server bool, level string, dir string) *Logger {
	if dir == "" {
		if server {
			dir = "deconflict-logs"
		} else {
			var err error
			dir, err = os.UserConfigDir()
			if err != nil {
				fmt.Fprintf(os.Stderr, "unable to find user config dir: %v\n", err)
				dir = "."
			}
			dir = filepath.Join(dir, "deconflict")
		}
	}

	var w *lumberjack.Logger
	if server {
		w = &lumberjack.Logger{
			Filename: filepath.Join(dir, "server.slog"),
			MaxSize:  64, // MB
			MaxAge:   14,
			Compress: true,
		}
	} else {
		w = &lumberjack.Logger{
			Filename:   filepath.Join(dir, "cli.slog"),
			MaxSize:    16, // MB
			MaxBackups: 1,
		}
		if level == "debug" {
			w.MaxSize = 128
		}
	}

	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "":
		// keep default
	default:
		fmt.Fprintf(os.Stderr, "%s: invalid log level, using info\n", level)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	l := &Logger{
		Logger:  slog.New(h),
		LogFile: w.Filename,
		Start:   time.Now(),
	}

	l.Info("logger started", slog.Time("start", l.Start))
	l.Info("system information",
		slog.String("GOARCH", runtime.GOARCH),
		slog.String("GOOS", runtime.GOOS),
		slog.Int("NumCPUs", runtime.NumCPU()))

	if bi, ok := debug.ReadBuildInfo(); ok {
		l.Info("build", slog.String("go_version", bi.GoVersion), slog.String("path", bi.Path))
	}

	return l
}

// Debug logs at debug level with call-stack context. A nil *Logger
// discards the message, matching the teacher's "logging is optional at
// every call site" convention.
func (l *Logger) Debug(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelDebug) {
		args = append([]any{slog.Any("callstack", Callstack(nil))}, args...)
		l.Logger.Debug(msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelInfo) {
		args = append([]any{slog.Any("callstack", Callstack(nil))}, args...)
		l.Logger.Info(msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	if l == nil {
		return
	}
	args = append([]any{slog.Any("callstack", Callstack(nil))}, args...)
	l.Logger.Warn(msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	if l == nil {
		return
	}
	args = append([]any{slog.Any("callstack", Callstack(nil))}, args...)
	l.Logger.Error(msg, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	l.Logger.Error(fmt.Sprintf(format, args...), slog.Any("callstack", Callstack(nil)))
}

// With returns a Logger that always includes the given attributes,
// preserving LogFile/Start for callers that inspect them.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:  l.Logger.With(args...),
		LogFile: l.LogFile,
		Start:   l.Start,
	}
}

// Package logging provides the renderer's injected logging capability:
// a thin wrapper around log/slog with an optional rotating file sink.
// A nil *Logger is always a legal value — logging must never be why
// the renderer can't start.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps a *slog.Logger, tracking when it was constructed and
// (if configured) the file it's rotating into.
type Logger struct {
	*slog.Logger
	LogFile string
	Start   time.Time
}

// New builds a Logger at the given level ("debug", "info", "warn", or
// "error"). If dir is non-empty, log output rotates into dir via
// lumberjack in addition to being JSON-formatted; if dir is empty,
// output goes to the handler's default destination (stderr).
func New(level, dir string) *Logger {
	lvl := parseLevel(level)

	var handler slog.Handler
	if dir != "" {
		w := &lumberjack.Logger{
			Filename:   dir + "/term-webgl2.log",
			MaxSize:    32, // MB
			MaxBackups: 3,
			MaxAge:     14,
			Compress:   true,
		}
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
		return &Logger{Logger: slog.New(handler), LogFile: w.Filename, Start: time.Now()}
	}

	handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	return &Logger{Logger: slog.New(handler), Start: time.Now()}
}

func parseLevel(level string) slog.Level {
	switch level {
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

// LogBuildInfo emits one Info record describing the running binary's
// module dependencies and build settings, read from debug.BuildInfo.
// Optional: callers building a library embedding this package are not
// required to call it, unlike an application's startup path.
func (l *Logger) LogBuildInfo() {
	if l == nil {
		return
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	deps := make([]any, 0, len(bi.Deps))
	for _, dep := range bi.Deps {
		deps = append(deps, slog.String(dep.Path, dep.Version))
	}
	l.Info("build info", slog.String("go_version", bi.GoVersion), slog.Group("deps", deps...))
}

// Debug logs at debug level if enabled; a nil Logger discards it.
func (l *Logger) Debug(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelDebug) {
		l.Logger.Debug(msg, args...)
	}
}

// Debugf is a printf-style convenience wrapper around Debug.
func (l *Logger) Debugf(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelDebug) {
		l.Logger.Debug(fmt.Sprintf(msg, args...))
	}
}

// Info logs at info level if enabled; a nil Logger discards it.
func (l *Logger) Info(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelInfo) {
		l.Logger.Info(msg, args...)
	}
}

// Infof is a printf-style convenience wrapper around Info.
func (l *Logger) Infof(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelInfo) {
		l.Logger.Info(fmt.Sprintf(msg, args...))
	}
}

// Warn logs a warning. A nil Logger still routes through slog's
// package-level default so warnings are never silently dropped.
func (l *Logger) Warn(msg string, args ...any) {
	if l == nil {
		slog.Warn(msg, args...)
		return
	}
	l.Logger.Warn(msg, args...)
}

// Warnf is a printf-style convenience wrapper around Warn.
func (l *Logger) Warnf(msg string, args ...any) {
	if l == nil {
		slog.Warn(fmt.Sprintf(msg, args...))
		return
	}
	l.Logger.Warn(fmt.Sprintf(msg, args...))
}

// Error logs an error unconditionally, routing through both this
// Logger (if non-nil) and slog's package-level default, matching the
// "errors must always reach somewhere visible" policy.
func (l *Logger) Error(msg string, args ...any) {
	slog.Error(msg, args...)
	if l != nil {
		l.Logger.Error(msg, args...)
	}
}

// Errorf is a printf-style convenience wrapper around Error. This is
// the method TerminalGrid.Render calls on a per-frame GL error.
func (l *Logger) Errorf(msg string, args ...any) {
	formatted := fmt.Sprintf(msg, args...)
	slog.Error(formatted)
	if l != nil {
		l.Logger.Error(formatted)
	}
}

// With returns a Logger that annotates every subsequent record with
// the given key/value pairs.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...), LogFile: l.LogFile, Start: l.Start}
}

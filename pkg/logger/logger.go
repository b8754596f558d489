package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/lmittmann/tint"
)

var (
	base  = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	debug bool
)

// Init swaps the default handler for the given environment: colourised tint
// output locally, JSON everywhere else.
func Init(env string) {
	debug = env == "development" || env == "local"

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
		base = slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339,
			AddSource:  true,
		}))
		return
	}

	base = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	}))
}

// L exposes the underlying structured logger.
func L() *slog.Logger {
	return base
}

func Info(format string, v ...interface{}) {
	emit(slog.LevelInfo, format, v...)
}

func Error(format string, v ...interface{}) {
	emit(slog.LevelError, format, v...)
}

func Warn(format string, v ...interface{}) {
	emit(slog.LevelWarn, format, v...)
}

func Debug(format string, v ...interface{}) {
	if debug {
		emit(slog.LevelDebug, format, v...)
	}
}

// emit keeps the caller's source location instead of this file's.
func emit(level slog.Level, format string, v ...interface{}) {
	ctx := context.Background()
	if !base.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])
	record := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, v...), pcs[0])
	_ = base.Handler().Handle(ctx, record)
}

// LogBackgroundError is the single place best-effort failures are reported.
func LogBackgroundError(task, entityID string, err error) {
	base.Warn("background task failed", "task", task, "entity", entityID, "error", err)
}

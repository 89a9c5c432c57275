package utils

import (
	"context"
	"log/slog"
)

func logAt(level slog.Level, e error, args ...any) {
	if e == nil {
		return
	}
	slog.Log(context.Background(), level, "Error Occurred", append([]any{"error", e}, args...)...)
}

// Loge logs a non nil error at error level with optional key value pairs.
func Loge(e error, args ...any) {
	logAt(slog.LevelError, e, args...)
}

func Logwe(e error, args ...any) {
	logAt(slog.LevelWarn, e, args...)
}

func Logde(e error, args ...any) {
	logAt(slog.LevelDebug, e, args...)
}

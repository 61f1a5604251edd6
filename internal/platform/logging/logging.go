// Package logging は log/slog の既定ロガーを設定します。
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel は "debug" / "info" / "warn" / "error" を slog.Level に変換します。不明な値は info です。
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

// New は format（"json" または "text"）に応じたロガーを w に向けて生成します。
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// Setup は標準エラー出力へのロガーを既定に設定して返します。
func Setup(level, format string) *slog.Logger {
	l := New(os.Stderr, level, format)
	slog.SetDefault(l)
	return l
}

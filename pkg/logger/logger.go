package logger

import (
	"log/slog"
	"os"
)

var log *slog.Logger

// Init sets up the global logger. Development gets readable text output,
// everything else ships JSON.
func Init(env string) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

func get() *slog.Logger {
	if log == nil {
		Init("development")
	}
	return log
}

// kv lets call sites pass a bare error (or value) as the only argument
// instead of a key/value pair.
func kv(args []any) []any {
	if len(args) == 1 {
		if _, ok := args[0].(slog.Attr); !ok {
			return []any{"error", args[0]}
		}
	}
	return args
}

func Debug(msg string, args ...any) {
	get().Debug(msg, kv(args)...)
}

func Info(msg string, args ...any) {
	get().Info(msg, kv(args)...)
}

func Warn(msg string, args ...any) {
	get().Warn(msg, kv(args)...)
}

func Error(msg string, args ...any) {
	get().Error(msg, kv(args)...)
}

func Fatal(msg string, args ...any) {
	get().Error(msg, kv(args)...)
	os.Exit(1)
}

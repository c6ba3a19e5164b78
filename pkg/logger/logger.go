package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New builds the process logger. An unknown level or format falls back to the
// default and the returned logger reports the problem once.
func New(options Options) *slog.Logger {
	output := options.Output
	if output == nil {
		output = os.Stdout
	}

	var opts slog.HandlerOptions
	switch strings.ToLower(options.Level) {
	case "", "info":
		opts.Level = slog.LevelInfo
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn", "warning":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		level := options.Level
		options.Level = ""
		logger := New(options)
		logger.Warn("could not parse logger level", "level", level)
		return logger
	}

	var handler slog.Handler
	switch strings.ToLower(options.Format) {
	case "", "text":
		handler = slog.NewTextHandler(output, &opts)
	case "json":
		handler = slog.NewJSONHandler(output, &opts)
	default:
		format := options.Format
		options.Format = "text"
		logger := New(options)
		logger.Warn("could not parse logger format", "format", format)
		return logger
	}

	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/pterm/pterm"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/luca-patrignani/sequenced-amm/config"
)

// newLogger writes to the console through pterm and, when a file is
// configured, as JSON to a rotating log file. The returned closer releases
// the file.
func newLogger(cfg config.Log) (*slog.Logger, io.Closer, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	console := pterm.NewSlogHandler(pterm.DefaultLogger.WithLevel(ptermLevel(level)))
	if cfg.File == "" {
		return slog.New(console), io.NopCloser(nil), nil
	}
	rw := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,  // megabytes
		MaxAge:     cfg.MaxAgeDays, // days
		MaxBackups: cfg.MaxBackups, // files
		Compress:   cfg.Compress,
	}
	file := slog.NewJSONHandler(rw, &slog.HandlerOptions{Level: level})
	return slog.New(teeHandler{console, file}), rw, nil
}

func ptermLevel(level slog.Level) pterm.LogLevel {
	switch {
	case level <= slog.LevelDebug:
		return pterm.LogLevelDebug
	case level <= slog.LevelInfo:
		return pterm.LogLevelInfo
	case level <= slog.LevelWarn:
		return pterm.LogLevelWarn
	default:
		return pterm.LogLevelError
	}
}

// teeHandler hands every record to each of its handlers.
type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}

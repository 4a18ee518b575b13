package main

import (
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
	logFileMaxAgeDays = 7
)

// newLogger returns the diagnostics logger and a function releasing its output.
// Diagnostics go to w as text, or as JSON to a rotating --log-file.
func newLogger(w io.Writer) (*slog.Logger, func() error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}

	if logFile == "" {
		return slog.New(slog.NewTextHandler(w, opts)), func() error { return nil }
	}

	writer := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		MaxAge:     logFileMaxAgeDays,
		Compress:   true,
	}

	return slog.New(slog.NewJSONHandler(writer, opts)), writer.Close
}

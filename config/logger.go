package config

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates a structured logger writing to w.
func NewLogger(cfg LoggingConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339

	output := w
	if cfg.Format != "json" {
		output = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

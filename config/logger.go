package config

import (
	"log/slog"
	"os"

	"conferencecentral/internal/logging"
)

// NewLogger returns a slog.Logger backed by zerolog. Production writes JSON; otherwise the
// zerolog console writer. Level may be: debug, info, warn, error (default: info).
func NewLogger(cfg *Config) *slog.Logger {
	return logging.New(os.Stdout, cfg.LogLevel, cfg.IsProduction())
}

package main

import (
	"log/slog"
	"os"
)

var (
	logLevel = new(slog.LevelVar)
	theLog   = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			if a.Key == slog.LevelKey {
				if a.Value.String() == "INFO" {
					return slog.Attr{}
				}
			}
			return a
		},
	}))
)

func (cfg *Config) level() slog.Level {
	switch {
	case cfg.Debug:
		return slog.LevelDebug
	case cfg.Verbose:
		return slog.LevelInfo
	case cfg.Quiet:
		return slog.LevelError
	}
	return slog.LevelWarn
}

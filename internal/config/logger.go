package config

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/simp-lee/logger"
)

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

var logFormats = map[string]logger.OutputFormat{
	"text": logger.FormatText,
	"json": logger.FormatJSON,
}

// SetupLogger creates a *logger.Logger from cfg and installs it as the slog
// default. The caller must Close the returned logger.
func SetupLogger(cfg *LogConfig) (*logger.Logger, error) {
	if cfg == nil {
		return nil, errors.New("log config is nil")
	}

	l, err := logger.New(BuildLoggerOpts(cfg)...)
	if err != nil {
		return nil, err
	}
	l.SetDefault()
	return l, nil
}

// BuildLoggerOpts maps cfg to logger options. It returns nil for a nil cfg.
// Unknown levels fall back to info and unknown formats to the custom console
// format. Rotation settings only apply when a file path is set.
func BuildLoggerOpts(cfg *LogConfig) []logger.Option {
	if cfg == nil {
		return nil
	}

	level, ok := logLevels[strings.ToLower(cfg.Level)]
	if !ok {
		level = slog.LevelInfo
	}
	format, ok := logFormats[strings.ToLower(cfg.Format)]
	if !ok {
		format = logger.FormatCustom
	}
	color := cfg.Color == nil || *cfg.Color

	opts := []logger.Option{
		logger.WithLevel(level),
		logger.WithMiddleware(logger.ContextMiddleware()),
		logger.WithConsoleFormat(format),
		logger.WithConsoleColor(color),
	}
	if cfg.FilePath == "" {
		return opts
	}

	opts = append(opts, logger.WithFilePath(cfg.FilePath), logger.WithFileFormat(format))
	for _, rotation := range []struct {
		set bool
		opt func() logger.Option
	}{
		{cfg.MaxSizeMB > 0, func() logger.Option { return logger.WithMaxSizeMB(cfg.MaxSizeMB) }},
		{cfg.RetentionDays > 0, func() logger.Option { return logger.WithRetentionDays(cfg.RetentionDays) }},
		{cfg.MaxBackups > 0, func() logger.Option { return logger.WithMaxBackups(cfg.MaxBackups) }},
		{cfg.CompressRotated != nil, func() logger.Option { return logger.WithCompressRotated(*cfg.CompressRotated) }},
	} {
		if rotation.set {
			opts = append(opts, rotation.opt())
		}
	}
	return opts
}

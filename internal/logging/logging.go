// Package logging builds the process logger from the logging config section.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/parched/internal/config"
)

// New returns a console logger with coloured levels, or a JSON logger when the
// format is "json". Unknown levels fall back to info.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stderr"}

	return zapCfg.Build()
}

// Quiet returns a logger that only reports errors, for interactive views that
// own the terminal.
func Quiet(cfg config.LoggingConfig) (*zap.Logger, error) {
	cfg.Level = "error"
	return New(cfg)
}

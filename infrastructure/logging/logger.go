// Package logging builds the process zap.Logger, grounded on the
// teacher's internal/errors.NewStructuredLogger environment-sensitive
// config split.
package logging

import (
	"ontologykg/infrastructure/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap.Logger tuned for cfg.Environment: JSON/info in
// production, colored console/debug in development.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		zcfg.Sampling = &zap.SamplingConfig{Initial: 100, Thereafter: 100}
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(level)
	}
	zcfg.OutputPaths = []string{"stdout"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	return zcfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger and installs it as the zap global.
// mode "production" gives JSON output, anything else the console encoder.
func New(mode, service string) (*zap.Logger, error) {
	var cfg zap.Config
	if mode == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stdout"}

	log, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return nil, err
	}
	log = log.With(zap.String("service", service))
	zap.ReplaceGlobals(log)
	return log, nil
}

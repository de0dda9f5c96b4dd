package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Development bool
}

// New builds the process logger. Development mode logs at debug level with colored
// console output; production emits JSON at info.
func New(cfg Config) (*zap.SugaredLogger, error) {
	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc = zap.NewProductionConfig()
	}
	l, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar().Named("ideaswipe"), nil
}

package app

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger создаёт логгер для окружения; level переопределяет уровень по умолчанию
func NewLogger(env, level string) *zap.Logger {
	logger, err := buildLogger(env, level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return logger
}

func buildLogger(env, level string) (*zap.Logger, error) {
	var config zap.Config

	if env == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		config.Level = lvl
	}

	config.OutputPaths = []string{"stdout"}
	config.InitialFields = map[string]any{"service": "booking_bot"}

	return config.Build()
}

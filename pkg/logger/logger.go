package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New - продакшн конфигурация zap, dev-режим при env=local
func New(serviceName string, env string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(
		zap.Fields(
			zap.String("service", serviceName),
		),
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

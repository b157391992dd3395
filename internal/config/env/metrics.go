package env

import (
	"os"

	"zoo_roulette/internal/config"
)

const (
	metricsPortEnvName = "METRICS_PORT"
)

type metricsConfig struct {
	port string
}

// NewMetricsConfig - при пустом METRICS_PORT сервер метрик не поднимается
func NewMetricsConfig() (config.MetricsConfig, error) {
	return &metricsConfig{
		port: os.Getenv(metricsPortEnvName),
	}, nil
}

func (cfg *metricsConfig) Port() string {
	return cfg.port
}

package env

import (
	"os"

	"zoo_roulette/internal/config"
)

const (
	redisAddrEnvName     = "REDIS_ADDR"
	eventsChannelEnvName = "GAME_EVENTS_CHANNEL"

	defaultEventsChannel = "game_updates"
)

type redisConfig struct {
	addr    string
	channel string
}

// NewRedisConfig - redis не обязателен: при пустом REDIS_ADDR
// события раундов просто не публикуются
func NewRedisConfig() (config.RedisConfig, error) {
	channel := os.Getenv(eventsChannelEnvName)
	if len(channel) == 0 {
		channel = defaultEventsChannel
	}

	return &redisConfig{
		addr:    os.Getenv(redisAddrEnvName),
		channel: channel,
	}, nil
}

func (cfg *redisConfig) Addr() string {
	return cfg.addr
}

func (cfg *redisConfig) EventsChannel() string {
	return cfg.channel
}

package config

import (
	"time"

	"zoo_roulette/internal/model"

	"github.com/joho/godotenv"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

// GameConfig - таблица исходов и тайминги раундов
type GameConfig interface {
	Outcomes() []model.Outcome        // Сначала обычные, затем фестивальные, в порядке таблицы
	RegularOutcomes() []model.Outcome // Только обычные (на них принимаются пакетные ставки)
	OutcomeByID(id string) (model.Outcome, bool)
	RoundDuration() time.Duration
	SingleWagerGrace() time.Duration
	BatchWagerGrace() time.Duration
	TickInterval() time.Duration
}

type HTTPConfig interface {
	Address() string
}

type PGConfig interface {
	DSN() string
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
	RefreshTokenDuration() time.Duration
}

// RedisConfig - канал для событий раундов. Addr может быть пустым,
// тогда публикация событий отключена.
type RedisConfig interface {
	Addr() string
	EventsChannel() string
}

type MetricsConfig interface {
	Port() string
}

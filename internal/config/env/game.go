package env

import (
	"errors"
	"fmt"
	"os"
	"time"

	"zoo_roulette/internal/config"
	"zoo_roulette/internal/model"

	"gopkg.in/yaml.v3"
)

const (
	defaultRoundDuration    = 30 * time.Second
	defaultSingleWagerGrace = 1 * time.Second
	defaultBatchWagerGrace  = 3 * time.Second
	defaultTickInterval     = 5 * time.Second
)

type gameYAML struct {
	Game struct {
		RoundDuration    string `yaml:"round_duration"`
		SingleWagerGrace string `yaml:"single_wager_grace"`
		BatchWagerGrace  string `yaml:"batch_wager_grace"`
		TickInterval     string `yaml:"tick_interval"`
		Outcomes         []struct {
			ID         string  `yaml:"id"`
			Label      string  `yaml:"label"`
			Weight     float64 `yaml:"weight"`
			Multiplier int     `yaml:"multiplier"`
			Special    bool    `yaml:"special"`
		} `yaml:"outcomes"`
	} `yaml:"game"`
}

type gameConfig struct {
	outcomes         []model.Outcome // Обычные, затем фестивальные
	byID             map[string]model.Outcome
	regularCount     int
	roundDuration    time.Duration
	singleWagerGrace time.Duration
	batchWagerGrace  time.Duration
	tickInterval     time.Duration
}

// NewGameConfigFromYAML - читает таблицу исходов и тайминги раундов из YAML файла
func NewGameConfigFromYAML(path string) (config.GameConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game config: %w", err)
	}

	var parsed gameYAML
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse game config: %w", err)
	}

	if len(parsed.Game.Outcomes) == 0 {
		return nil, errors.New("game config has no outcomes")
	}

	cfg := &gameConfig{
		byID:             make(map[string]model.Outcome, len(parsed.Game.Outcomes)),
		roundDuration:    defaultRoundDuration,
		singleWagerGrace: defaultSingleWagerGrace,
		batchWagerGrace:  defaultBatchWagerGrace,
		tickInterval:     defaultTickInterval,
	}

	// Обычные исходы идут перед фестивальными - порядок раздела сохраняется
	var regular, special []model.Outcome
	for _, o := range parsed.Game.Outcomes {
		if o.Weight <= 0 {
			return nil, fmt.Errorf("outcome %q has non-positive weight", o.ID)
		}
		if o.Multiplier <= 0 {
			return nil, fmt.Errorf("outcome %q has non-positive multiplier", o.ID)
		}
		outcome := model.Outcome{
			ID:          o.ID,
			DisplayName: o.Label,
			Weight:      o.Weight,
			Multiplier:  o.Multiplier,
			Special:     o.Special,
		}
		if _, exists := cfg.byID[o.ID]; exists {
			return nil, fmt.Errorf("duplicate outcome %q", o.ID)
		}
		cfg.byID[o.ID] = outcome
		if o.Special {
			special = append(special, outcome)
		} else {
			regular = append(regular, outcome)
		}
	}
	cfg.regularCount = len(regular)
	cfg.outcomes = append(regular, special...)

	if err := setDuration(&cfg.roundDuration, parsed.Game.RoundDuration); err != nil {
		return nil, fmt.Errorf("invalid round_duration: %w", err)
	}
	if err := setDuration(&cfg.singleWagerGrace, parsed.Game.SingleWagerGrace); err != nil {
		return nil, fmt.Errorf("invalid single_wager_grace: %w", err)
	}
	if err := setDuration(&cfg.batchWagerGrace, parsed.Game.BatchWagerGrace); err != nil {
		return nil, fmt.Errorf("invalid batch_wager_grace: %w", err)
	}
	if err := setDuration(&cfg.tickInterval, parsed.Game.TickInterval); err != nil {
		return nil, fmt.Errorf("invalid tick_interval: %w", err)
	}

	return cfg, nil
}

func setDuration(dst *time.Duration, raw string) error {
	if len(raw) == 0 {
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	if parsed <= 0 {
		return errors.New("duration must be positive")
	}
	*dst = parsed
	return nil
}

func (cfg *gameConfig) Outcomes() []model.Outcome {
	return cfg.outcomes
}

func (cfg *gameConfig) RegularOutcomes() []model.Outcome {
	return cfg.outcomes[:cfg.regularCount]
}

func (cfg *gameConfig) OutcomeByID(id string) (model.Outcome, bool) {
	o, ok := cfg.byID[id]
	return o, ok
}

func (cfg *gameConfig) RoundDuration() time.Duration {
	return cfg.roundDuration
}

func (cfg *gameConfig) SingleWagerGrace() time.Duration {
	return cfg.singleWagerGrace
}

func (cfg *gameConfig) BatchWagerGrace() time.Duration {
	return cfg.batchWagerGrace
}

func (cfg *gameConfig) TickInterval() time.Duration {
	return cfg.tickInterval
}

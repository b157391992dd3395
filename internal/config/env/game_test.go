package env_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"zoo_roulette/internal/config/env"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewGameConfigFromYAML(t *testing.T) {
	path := writeConfig(t, `
game:
  round_duration: 10s
  single_wager_grace: 500ms
  batch_wager_grace: 2s
  tick_interval: 1s
  outcomes:
    - id: turtle
      label: "Turtle"
      weight: 50
      multiplier: 2
    - id: festival
      label: "Festival"
      weight: 1
      multiplier: 10
      special: true
    - id: lion
      label: "Lion"
      weight: 49
      multiplier: 2
`)

	cfg, err := env.NewGameConfigFromYAML(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.RoundDuration())
	assert.Equal(t, 500*time.Millisecond, cfg.SingleWagerGrace())
	assert.Equal(t, 2*time.Second, cfg.BatchWagerGrace())
	assert.Equal(t, time.Second, cfg.TickInterval())

	// Обычные исходы идут перед фестивальными независимо от порядка в файле
	outcomes := cfg.Outcomes()
	require.Len(t, outcomes, 3)
	assert.Equal(t, "turtle", outcomes[0].ID)
	assert.Equal(t, "lion", outcomes[1].ID)
	assert.Equal(t, "festival", outcomes[2].ID)
	assert.True(t, outcomes[2].Special)

	regular := cfg.RegularOutcomes()
	require.Len(t, regular, 2)

	o, ok := cfg.OutcomeByID("lion")
	require.True(t, ok)
	assert.Equal(t, 2, o.Multiplier)

	_, ok = cfg.OutcomeByID("dragon")
	assert.False(t, ok)
}

func TestNewGameConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
game:
  outcomes:
    - id: turtle
      label: "Turtle"
      weight: 1
      multiplier: 2
`)

	cfg, err := env.NewGameConfigFromYAML(path)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.RoundDuration())
	assert.Equal(t, time.Second, cfg.SingleWagerGrace())
	assert.Equal(t, 3*time.Second, cfg.BatchWagerGrace())
	assert.Equal(t, 5*time.Second, cfg.TickInterval())
}

func TestNewGameConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{
			name: "no outcomes",
			content: `
game:
  outcomes: []
`,
		},
		{
			name: "duplicate outcome id",
			content: `
game:
  outcomes:
    - id: turtle
      label: "Turtle"
      weight: 1
      multiplier: 2
    - id: turtle
      label: "Turtle again"
      weight: 1
      multiplier: 2
`,
		},
		{
			name: "non-positive weight",
			content: `
game:
  outcomes:
    - id: turtle
      label: "Turtle"
      weight: 0
      multiplier: 2
`,
		},
		{
			name: "non-positive multiplier",
			content: `
game:
  outcomes:
    - id: turtle
      label: "Turtle"
      weight: 1
      multiplier: 0
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)

			_, err := env.NewGameConfigFromYAML(path)
			assert.Error(t, err)
		})
	}
}

func TestNewGameConfigMissingFile(t *testing.T) {
	_, err := env.NewGameConfigFromYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

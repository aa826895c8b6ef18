package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTuning(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad_EmptyPathGivesDefaults(t *testing.T) {
	tu, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), tu)
}

func TestLoad_OverridesSubset(t *testing.T) {
	path := writeTuning(t, `
tick_rate: 30
spawn_interval: 0.5
planet_pos: {x: 0.4, y: 0.6}
`)
	tu, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30.0, tu.TickRate)
	assert.Equal(t, 0.5, tu.SpawnInterval)
	assert.Equal(t, 0.4, tu.PlanetPos.X)
	assert.Equal(t, 0.6, tu.PlanetPos.Y)
	assert.Equal(t, Default().ShipRadius, tu.ShipRadius, "untouched keys keep defaults")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeTuning(t, "tick_rate: [1, 2"))
	require.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := writeTuning(t, `
tick_rate: 0
merge_ratio: 1.5
warning_threshold: 20000
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tick_rate must be positive")
	assert.Contains(t, err.Error(), "merge_ratio must be below 1")
	assert.Contains(t, err.Error(), "warning_threshold")
}

func TestValidate_SplitRatios(t *testing.T) {
	tu := Default()
	tu.SplitMinRatio, tu.SplitMaxRatio = 0.6, 0.4
	assert.Error(t, tu.Validate())

	tu.SplitMinRatio, tu.SplitMaxRatio = 0.2, 1
	assert.Error(t, tu.Validate())
}

func TestValidate_RejectsStalledOrEmptyRounds(t *testing.T) {
	cases := map[string]func(*Tuning){
		"meteor_decay must be positive":         func(tu *Tuning) { tu.MeteorDecay = 0 },
		"max_meteor_speed must be positive":     func(tu *Tuning) { tu.MaxMeteorSpeed = 0 },
		"ship_health must be positive":          func(tu *Tuning) { tu.ShipHealth = -5 },
		"initial_population must be positive":   func(tu *Tuning) { tu.InitialPopulation = 0 },
		"difficulty_scale must not be negative": func(tu *Tuning) { tu.DifficultyScale = -1 },
	}
	for msg, mutate := range cases {
		t.Run(msg, func(t *testing.T) {
			tu := Default()
			mutate(tu)
			err := tu.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), msg)
		})
	}

	tu := Default()
	tu.DifficultyScale = 0
	assert.NoError(t, tu.Validate(), "a flat difficulty curve is allowed")
}

func TestTuning_Rates(t *testing.T) {
	tu := Default()
	assert.InDelta(t, 1.0/60, tu.TickSeconds(), 1e-15)
	assert.InDelta(t, 1.0/(180*60), tu.ProgressPerTick(), 1e-15)
}

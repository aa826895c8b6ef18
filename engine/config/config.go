// Package config holds every tunable gameplay parameter. The defaults
// are the shipped balance; a YAML file can override any subset of them.
package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/gajop/pinkskins/engine/core"
)

// Tuning is the full set of gameplay constants. Distances are in
// normalized world units, rates are per logical tick unless noted.
type Tuning struct {
	TickRate float64 `yaml:"tick_rate"` // logical ticks per second

	// Craft
	ShipStart    core.Vec2 `yaml:"ship_start"`
	ShipRadius   float64   `yaml:"ship_radius"`
	ShipHealth   float64   `yaml:"ship_health"`
	AccelStep    float64   `yaml:"accel_step"`
	MaxAccel     float64   `yaml:"max_accel"`
	MaxShipSpeed float64   `yaml:"max_ship_speed"`

	// Planet
	PlanetPos    core.Vec2 `yaml:"planet_pos"`
	PlanetRadius float64   `yaml:"planet_radius"`

	// Damage
	ShipPlanetDamage  float64 `yaml:"ship_planet_damage"`
	ShipDamageScale   float64 `yaml:"ship_damage_scale"`   // ship damage = r² × scale
	PlanetDamageScale float64 `yaml:"planet_damage_scale"` // population damage = r² × scale

	// Meteors
	MeteorMinRadius     float64 `yaml:"meteor_min_radius"`
	MeteorMaxRadius     float64 `yaml:"meteor_max_radius"`
	MeteorMinSpeed      float64 `yaml:"meteor_min_speed"`
	MeteorMaxSpeed      float64 `yaml:"meteor_max_speed"`
	MaxMeteorSpeed      float64 `yaml:"max_meteor_speed"` // cap for split children
	MeteorDecay         float64 `yaml:"meteor_decay"`     // radius lost per tick
	MeteorDestroyRadius float64 `yaml:"meteor_destroy_radius"`
	SplitMinRatio       float64 `yaml:"split_min_ratio"`
	SplitMaxRatio       float64 `yaml:"split_max_ratio"`
	MergeRatio          float64 `yaml:"merge_ratio"`
	BorderMargin        float64 `yaml:"border_margin"`

	// Spawning
	SpawnInterval   float64 `yaml:"spawn_interval"` // seconds at difficulty 1
	DifficultyScale float64 `yaml:"difficulty_scale"`

	// Projectiles
	ProjectileSpeed   float64 `yaml:"projectile_speed"`
	ProjectileRadius  float64 `yaml:"projectile_radius"`
	ProjectileTTL     int     `yaml:"projectile_ttl"`
	ShotCooldownTicks int     `yaml:"shot_cooldown_ticks"`

	// Population & victory
	InitialPopulation   float64 `yaml:"initial_population"`
	GrowthFactor        float64 `yaml:"growth_factor"`
	OverPopulationLimit float64 `yaml:"overpopulation_limit"`
	WarningThreshold    float64 `yaml:"warning_threshold"`
	WarningIntervalTick int     `yaml:"warning_interval_ticks"`
	VictorySeconds      float64 `yaml:"victory_seconds"`

	// Floating texts
	DamageTextTTL  int     `yaml:"damage_text_ttl"`
	WarningTextTTL int     `yaml:"warning_text_ttl"`
	TextSize       float64 `yaml:"text_size"`
	TextDrift      float64 `yaml:"text_drift"` // upward speed of floating texts

	// Background
	StarCount     int     `yaml:"star_count"`
	StarThreshold float64 `yaml:"star_threshold"` // minimum noise value to place a star
}

// Default returns the shipped balance
func Default() *Tuning {
	return &Tuning{
		TickRate: 60,

		ShipStart:    core.Vec2{X: 0.15, Y: 0.7},
		ShipRadius:   0.015,
		ShipHealth:   100,
		AccelStep:    0.00002,
		MaxAccel:     0.0002,
		MaxShipSpeed: 0.008,

		PlanetPos:    core.Vec2{X: 0.5, Y: 0.5},
		PlanetRadius: 0.1,

		ShipPlanetDamage:  1000,
		ShipDamageScale:   100000,
		PlanetDamageScale: 750000,

		MeteorMinRadius:     0.008,
		MeteorMaxRadius:     0.03,
		MeteorMinSpeed:      0.0005,
		MeteorMaxSpeed:      0.002,
		MaxMeteorSpeed:      0.006,
		MeteorDecay:         0.000005,
		MeteorDestroyRadius: 0.003,
		SplitMinRatio:       0.2,
		SplitMaxRatio:       0.5,
		MergeRatio:          0.7,
		BorderMargin:        0.05,

		SpawnInterval:   1.2,
		DifficultyScale: 2,

		ProjectileSpeed:   0.012,
		ProjectileRadius:  0.004,
		ProjectileTTL:     90,
		ShotCooldownTicks: 8,

		InitialPopulation:   7000,
		GrowthFactor:        1.0000248,
		OverPopulationLimit: 10000,
		WarningThreshold:    9000,
		WarningIntervalTick: 300,
		VictorySeconds:      180,

		DamageTextTTL:  60,
		WarningTextTTL: 120,
		TextSize:       0.025,
		TextDrift:      0.0008,

		StarCount:     140,
		StarThreshold: -0.05,
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (*Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tuning %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("parse tuning %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

// Validate rejects values the simulation cannot run with
func (t *Tuning) Validate() error {
	var errs []error
	positive := map[string]float64{
		"tick_rate":             t.TickRate,
		"ship_radius":           t.ShipRadius,
		"ship_health":           t.ShipHealth,
		"planet_radius":         t.PlanetRadius,
		"meteor_min_radius":     t.MeteorMinRadius,
		"meteor_destroy_radius": t.MeteorDestroyRadius,
		"meteor_decay":          t.MeteorDecay,
		"max_meteor_speed":      t.MaxMeteorSpeed,
		"initial_population":    t.InitialPopulation,
		"spawn_interval":        t.SpawnInterval,
		"projectile_speed":      t.ProjectileSpeed,
		"projectile_radius":     t.ProjectileRadius,
		"victory_seconds":       t.VictorySeconds,
		"split_min_ratio":       t.SplitMinRatio,
		"merge_ratio":           t.MergeRatio,
	}
	for _, name := range slices.Sorted(maps.Keys(positive)) {
		if positive[name] <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %g", name, positive[name]))
		}
	}
	if t.MeteorMinRadius > t.MeteorMaxRadius {
		errs = append(errs, errors.New("meteor_min_radius exceeds meteor_max_radius"))
	}
	if t.MeteorMinSpeed > t.MeteorMaxSpeed {
		errs = append(errs, errors.New("meteor_min_speed exceeds meteor_max_speed"))
	}
	if t.SplitMinRatio > t.SplitMaxRatio || t.SplitMaxRatio >= 1 {
		errs = append(errs, errors.New("split ratios must satisfy 0 < min <= max < 1"))
	}
	if t.MergeRatio >= 1 {
		errs = append(errs, errors.New("merge_ratio must be below 1"))
	}
	if t.DifficultyScale < 0 {
		errs = append(errs, fmt.Errorf("difficulty_scale must not be negative, got %g", t.DifficultyScale))
	}
	if t.GrowthFactor < 1 {
		errs = append(errs, fmt.Errorf("growth_factor must be at least 1, got %g", t.GrowthFactor))
	}
	if t.WarningThreshold >= t.OverPopulationLimit {
		errs = append(errs, errors.New("warning_threshold must be below overpopulation_limit"))
	}
	if t.PlanetDamageScale <= t.ShipDamageScale {
		errs = append(errs, errors.New("planet_damage_scale must exceed ship_damage_scale"))
	}
	if t.ProjectileTTL <= 0 || t.DamageTextTTL <= 0 || t.WarningTextTTL <= 0 {
		errs = append(errs, errors.New("ttl values must be positive"))
	}
	return errors.Join(errs...)
}

// TickSeconds is the length of one logical tick
func (t *Tuning) TickSeconds() float64 {
	return 1 / t.TickRate
}

// ProgressPerTick is the victory progress gained each tick
func (t *Tuning) ProgressPerTick() float64 {
	return 1 / (t.VictorySeconds * t.TickRate)
}

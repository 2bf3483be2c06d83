// Package config provides YAML-based configuration loading for the skater
// game, difficulty presets and hot reload of the config file.
package config

import (
	"errors"
	"fmt"
	"time"
)

// SkaterConfig contains all tunables of the simulation. Lengths are world
// units, y grows upwards and speeds are per expected frame unless noted.
type SkaterConfig struct {
	Physics PhysicsConfig `yaml:"physics"`
	World   WorldConfig   `yaml:"world"`
	Player  PlayerConfig  `yaml:"player"`
	Scoring ScoringConfig `yaml:"scoring"`
	Frame   FrameConfig   `yaml:"frame"`
}

// PhysicsConfig selects and tunes the physics engine.
type PhysicsConfig struct {
	Engine           string  `yaml:"engine"`            // registry name: arcade or chipmunk
	Gravity          float64 `yaml:"gravity"`           // units/s^2, negative is down
	JumpImpulse      float64 `yaml:"jump_impulse"`      // vertical velocity change, units/s
	AirborneVelocity float64 `yaml:"airborne_velocity"` // |vy| above this means airborne
	AllowRotation    bool    `yaml:"allow_rotation"`
	MaxTilt          float64 `yaml:"max_tilt"` // degrees from upright before a wipeout
	Iterations       int     `yaml:"iterations"`
}

// WorldConfig defines the track layout and its generation odds.
type WorldConfig struct {
	ViewportWidth  float64 `yaml:"viewport_width"`
	ViewportHeight float64 `yaml:"viewport_height"`
	BrickWidth     float64 `yaml:"brick_width"`
	BrickHeight    float64 `yaml:"brick_height"`
	HighOffset     float64 `yaml:"high_offset"` // elevation of high bricks above low ones
	DrawRange      int     `yaml:"draw_range"`  // random draw is uniform in [0, draw_range)
	GapChance      int     `yaml:"gap_chance"`  // draws below this open a gap
	LevelChance    int     `yaml:"level_chance"`
	GapMinScore    int     `yaml:"gap_min_score"` // gaps need score above this
	LevelMinScore  int     `yaml:"level_min_score"`
	GapFactor      float64 `yaml:"gap_factor"` // gap width = factor * scroll speed
	GemSize        float64 `yaml:"gem_size"`
	GemMaxOffset   int     `yaml:"gem_max_offset"`
}

// PlayerConfig defines the character body.
type PlayerConfig struct {
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	StartOffset float64 `yaml:"start_offset"` // spawn height above the low brick level
}

// ScoringConfig defines scroll speed growth and score awards.
type ScoringConfig struct {
	StartSpeed     float64 `yaml:"start_speed"`
	SpeedIncrement float64 `yaml:"speed_increment"`
	GemBonus       int     `yaml:"gem_bonus"`
	ScoreInterval  float64 `yaml:"score_interval"` // seconds between time score ticks
}

// ScoreTick returns the score interval as a duration, truncated to whole
// nanoseconds.
func (s ScoringConfig) ScoreTick() time.Duration {
	return time.Duration(s.ScoreInterval * float64(time.Second))
}

// FrameConfig defines the frame duration scroll distances are normalised to.
type FrameConfig struct {
	ExpectedFPS int `yaml:"expected_fps"`
}

// Validate checks that the configuration can drive a simulation.
func (c SkaterConfig) Validate() error {
	var errs []error
	if c.Physics.Engine == "" {
		errs = append(errs, errors.New("physics.engine is empty"))
	}
	if c.World.ViewportWidth <= 0 || c.World.ViewportHeight <= 0 {
		errs = append(errs, fmt.Errorf("viewport %vx%v must be positive", c.World.ViewportWidth, c.World.ViewportHeight))
	}
	if c.World.BrickWidth <= 0 || c.World.BrickHeight <= 0 {
		errs = append(errs, fmt.Errorf("brick size %vx%v must be positive", c.World.BrickWidth, c.World.BrickHeight))
	}
	if c.Player.Width <= 0 || c.Player.Height <= 0 {
		errs = append(errs, fmt.Errorf("player size %vx%v must be positive", c.Player.Width, c.Player.Height))
	}
	if c.World.DrawRange <= 0 {
		errs = append(errs, fmt.Errorf("world.draw_range %d must be positive", c.World.DrawRange))
	}
	if c.World.GemMaxOffset <= 0 {
		errs = append(errs, fmt.Errorf("world.gem_max_offset %d must be positive", c.World.GemMaxOffset))
	}
	if c.World.GapFactor < 0 {
		errs = append(errs, fmt.Errorf("world.gap_factor %v must not be negative", c.World.GapFactor))
	}
	if c.Scoring.StartSpeed <= 0 {
		errs = append(errs, fmt.Errorf("scoring.start_speed %v must be positive", c.Scoring.StartSpeed))
	}
	if c.Scoring.SpeedIncrement < 0 {
		errs = append(errs, fmt.Errorf("scoring.speed_increment %v must not be negative", c.Scoring.SpeedIncrement))
	}
	if c.Scoring.ScoreTick() <= 0 {
		errs = append(errs, fmt.Errorf("scoring.score_interval %v must be at least one nanosecond", c.Scoring.ScoreInterval))
	}
	if c.Frame.ExpectedFPS <= 0 {
		errs = append(errs, fmt.Errorf("frame.expected_fps %d must be positive", c.Frame.ExpectedFPS))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset validates a preset name. An empty name means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", name)
	}
}

// ApplyPreset scales the starting scroll speed and its per-frame growth.
// Growth stays linear for every preset.
func ApplyPreset(cfg *SkaterConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Scoring.StartSpeed *= 0.8
		cfg.Scoring.SpeedIncrement *= 0.5
	case DifficultyHard:
		cfg.Scoring.StartSpeed *= 1.3
		cfg.Scoring.SpeedIncrement *= 2
	}
}

package config

import (
	_ "embed"
)

//go:embed defaults/skater.yaml
var defaultSkaterYAML []byte

// DefaultSkaterConfig returns the built-in configuration. It matches the
// embedded defaults/skater.yaml.
func DefaultSkaterConfig() SkaterConfig {
	return SkaterConfig{
		Physics: PhysicsConfig{
			Engine:           "arcade",
			Gravity:          -900,
			JumpImpulse:      480,
			AirborneVelocity: 100,
			AllowRotation:    false,
			MaxTilt:          85,
			Iterations:       10,
		},
		World: WorldConfig{
			ViewportWidth:  800,
			ViewportHeight: 480,
			BrickWidth:     100,
			BrickHeight:    40,
			HighOffset:     100,
			DrawRange:      99,
			GapChance:      2,
			LevelChance:    2,
			GapMinScore:    10,
			LevelMinScore:  20,
			GapFactor:      20,
			GemSize:        24,
			GemMaxOffset:   150,
		},
		Player: PlayerConfig{
			Width:       40,
			Height:      60,
			StartOffset: 64,
		},
		Scoring: ScoringConfig{
			StartSpeed:     5.0,
			SpeedIncrement: 0.01,
			GemBonus:       50,
			ScoreInterval:  1.0,
		},
		Frame: FrameConfig{
			ExpectedFPS: 60,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultSkaterYAML
}

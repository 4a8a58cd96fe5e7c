package combat

import (
	"fmt"
	"math"
)

// Range is an inclusive low/high interval on one axis.
type Range struct {
	Lo float64 `yaml:"lo"`
	Hi float64 `yaml:"hi"`
}

// Span returns the width of the range.
func (r Range) Span() float64 {
	return r.Hi - r.Lo
}

// Config holds the complete engine configuration. Values outside
// their valid ranges are a construction-time error; per-tick input is
// never validated this strictly (malformed actions degrade to idle).
type Config struct {
	// Team size per side; the world holds 2*TeamSize drones.
	TeamSize int `yaml:"team_size"`

	// Arena geometry
	MapBounds Range `yaml:"map_bounds"` // horizontal extent, both x and y
	MapHeight Range `yaml:"map_height"` // altitude band

	// Tick duration in seconds and episode horizon in ticks.
	Dt       float64 `yaml:"dt"`
	MaxSteps int     `yaml:"max_steps"`

	// Reward weights
	DamageReward   float64 `yaml:"damage_reward"`
	KillReward     float64 `yaml:"kill_reward"`
	DamagePenalty  float64 `yaml:"damage_penalty"`
	DeathPenalty   float64 `yaml:"death_penalty"`
	SurvivalReward float64 `yaml:"survival_reward"`

	// Collision hit radii per projectile type
	BulletHitRadius  float64 `yaml:"bullet_hit_radius"`
	MissileHitRadius float64 `yaml:"missile_hit_radius"`
}

// DefaultConfig returns the standard 3v3 engagement configuration.
func DefaultConfig() *Config {
	return &Config{
		TeamSize:  3,
		MapBounds: Range{Lo: -500, Hi: 500},
		MapHeight: Range{Lo: 0, Hi: 300},
		Dt:        0.1,
		MaxSteps:  3000,

		DamageReward:   0.5,
		KillReward:     50.0,
		DamagePenalty:  0.3,
		DeathPenalty:   30.0,
		SurvivalReward: 0.1,

		BulletHitRadius:  12.0,
		MissileHitRadius: 15.0,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.TeamSize <= 0 {
		return fmt.Errorf("team size must be positive")
	}

	if c.MapBounds.Span() <= 0 {
		return fmt.Errorf("map bounds lo must be less than hi")
	}

	if c.MapHeight.Span() <= 0 {
		return fmt.Errorf("map height lo must be less than hi")
	}

	if c.Dt <= 0 || math.IsInf(c.Dt, 0) || math.IsNaN(c.Dt) {
		return fmt.Errorf("tick duration must be positive and finite")
	}

	if c.MaxSteps <= 0 {
		return fmt.Errorf("step horizon must be positive")
	}

	for _, w := range []struct {
		name  string
		value float64
	}{
		{"damage reward", c.DamageReward},
		{"kill reward", c.KillReward},
		{"damage penalty", c.DamagePenalty},
		{"death penalty", c.DeathPenalty},
		{"survival reward", c.SurvivalReward},
	} {
		if w.value < 0 || math.IsInf(w.value, 0) || math.IsNaN(w.value) {
			return fmt.Errorf("%s must be non-negative and finite", w.name)
		}
	}

	if c.BulletHitRadius <= 0 || c.MissileHitRadius <= 0 {
		return fmt.Errorf("hit radii must be positive")
	}

	return nil
}

// NumAgents returns the total number of drones in the arena.
func (c *Config) NumAgents() int {
	return c.TeamSize * 2
}

// ObservationSize returns the fixed per-agent observation length,
// which depends only on the team size.
func (c *Config) ObservationSize() int {
	return 13 + c.TeamSize*10 + (c.TeamSize-1)*8 + 6
}

// String returns a human-readable representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf(`Combat Engine Configuration:
  Team Size: %d (%d agents)
  Map Bounds: [%.0f, %.0f]
  Map Height: [%.0f, %.0f]
  Tick: %.3fs
  Horizon: %d steps
  Rewards: damage %.2f, kill %.1f, penalty %.2f, death %.1f, survival %.2f
  Hit Radii: bullet %.1f, missile %.1f`,
		c.TeamSize,
		c.NumAgents(),
		c.MapBounds.Lo,
		c.MapBounds.Hi,
		c.MapHeight.Lo,
		c.MapHeight.Hi,
		c.Dt,
		c.MaxSteps,
		c.DamageReward,
		c.KillReward,
		c.DamagePenalty,
		c.DeathPenalty,
		c.SurvivalReward,
		c.BulletHitRadius,
		c.MissileHitRadius,
	)
}

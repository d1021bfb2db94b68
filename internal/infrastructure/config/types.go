package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned for physics.json values that cannot drive a simulation
var ErrInvalidConfig = errors.New("invalid config")

// PhysicsConfig is the root config for physics.json
type PhysicsConfig struct {
	Display   DisplayConfig   `json:"display"`
	Physics   PhysicsSettings `json:"physics"`
	Collision CollisionConfig `json:"collision"`
	Feedback  FeedbackConfig  `json:"feedback"`
}

type DisplayConfig struct {
	ScreenWidth  int `json:"screenWidth"`
	ScreenHeight int `json:"screenHeight"`
	Scale        int `json:"scale"`
	Framerate    int `json:"framerate"`
}

type PhysicsSettings struct {
	Gravity         float64 `json:"gravity"`         // px/s²
	MaxFallSpeed    float64 `json:"maxFallSpeed"`    // px/s, per-body profiles may override
	SubstepCeiling  float64 `json:"substepCeiling"`  // s, largest integration chunk
	MaxFrameDt      float64 `json:"maxFrameDt"`      // s, frame dt is clamped to [0, MaxFrameDt]
	ScanLookahead   int     `json:"scanLookahead"`   // tiles past the overlapped span
	LiquidSinkSpeed float64 `json:"liquidSinkSpeed"` // px/s
	MaxResolves     int     `json:"maxResolves"`     // collisions resolved per layer and axis
}

type CollisionConfig struct {
	NormalThreshold float64 `json:"normalThreshold"`
}

type FeedbackConfig struct {
	ScreenShake ScreenShakeConfig `json:"screenShake"`
}

type ScreenShakeConfig struct {
	Enabled   bool    `json:"enabled"`
	Intensity float64 `json:"intensity"` // px
	Duration  float64 `json:"duration"`  // s
	Frequency float64 `json:"frequency"` // Hz
}

// DefaultPhysicsConfig returns the values used for any field left at zero
func DefaultPhysicsConfig() *PhysicsConfig {
	cfg := &PhysicsConfig{
		Display: DisplayConfig{ScreenWidth: 320, ScreenHeight: 240, Scale: 3, Framerate: 60},
		Physics: PhysicsSettings{Gravity: 980, MaxFallSpeed: 400},
		Feedback: FeedbackConfig{
			ScreenShake: ScreenShakeConfig{Enabled: true, Intensity: 3, Duration: 0.4, Frequency: 25},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero-valued tuning knobs
func (c *PhysicsConfig) ApplyDefaults() {
	p := &c.Physics
	if p.SubstepCeiling == 0 {
		p.SubstepCeiling = 1.0 / 30
	}
	if p.MaxFrameDt == 0 {
		p.MaxFrameDt = 1.0 / 15
	}
	if p.ScanLookahead == 0 {
		p.ScanLookahead = 5
	}
	if p.LiquidSinkSpeed == 0 {
		p.LiquidSinkSpeed = 2
	}
	if p.MaxResolves == 0 {
		p.MaxResolves = 3
	}
	if c.Collision.NormalThreshold == 0 {
		c.Collision.NormalThreshold = 0.3
	}
}

// Validate rejects values the integrator cannot work with
func (c *PhysicsConfig) Validate() error {
	p := c.Physics
	switch {
	case p.SubstepCeiling <= 0:
		return fmt.Errorf("%w: substepCeiling must be positive", ErrInvalidConfig)
	case p.MaxFrameDt < p.SubstepCeiling:
		return fmt.Errorf("%w: maxFrameDt %.4f below substepCeiling %.4f", ErrInvalidConfig, p.MaxFrameDt, p.SubstepCeiling)
	case p.MaxFallSpeed < 0:
		return fmt.Errorf("%w: maxFallSpeed must not be negative", ErrInvalidConfig)
	case p.ScanLookahead < 0:
		return fmt.Errorf("%w: scanLookahead must not be negative", ErrInvalidConfig)
	case c.Collision.NormalThreshold <= 0 || c.Collision.NormalThreshold >= 1:
		return fmt.Errorf("%w: normalThreshold must be in (0, 1)", ErrInvalidConfig)
	}
	return nil
}

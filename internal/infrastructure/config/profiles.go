package config

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/younwookim/shine/internal/domain/entity"
)

// ErrInvalidProfile is returned for character or projectile tuning that cannot be simulated
var ErrInvalidProfile = errors.New("invalid profile")

// ProfilesConfig is the root config for profiles.yaml
type ProfilesConfig struct {
	Characters  map[string]CharacterProfile  `yaml:"characters"`
	Projectiles map[string]ProjectileProfile `yaml:"projectiles"`
}

// CharacterProfile is the tuning of one kind of body
type CharacterProfile struct {
	Kind   string  `yaml:"kind"` // friendly, enemy or default
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	MaxSpeed        float64  `yaml:"max_speed"`
	Acceleration    float64  `yaml:"acceleration"`
	GravityScale    *float64 `yaml:"gravity_scale"`
	MaxFallSpeed    float64  `yaml:"max_fall_speed"`
	JumpSpeed       float64  `yaml:"jump_speed"`
	ClimbSpeed      float64  `yaml:"climb_speed"`
	SqueezeSpeed    float64  `yaml:"squeeze_speed"`
	Heavy           bool     `yaml:"heavy"`
	Pushable        bool     `yaml:"pushable"`
	StopsOnReversal *bool    `yaml:"stops_on_reversal"`
	CanJump         *bool    `yaml:"can_jump"`
	CarriesRiders   bool     `yaml:"carries_riders"`

	Script string `yaml:"script"` // tengo source driving the body, empty for keyboard control
}

// ProjectileProfile is the tuning of a particle
type ProjectileProfile struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	Speed          float64 `yaml:"speed"`
	LaunchAngleDeg float64 `yaml:"launch_angle_deg"`
	GravityScale   float64 `yaml:"gravity_scale"`
	MaxRange       float64 `yaml:"max_range"` // px from the launch point, 0 for unlimited
}

// ParseProfiles decodes and validates profiles.yaml content
func ParseProfiles(data []byte) (*ProfilesConfig, error) {
	var cfg ProfilesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse profiles: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every profile, in name order
func (c *ProfilesConfig) Validate() error {
	for _, name := range sortedKeys(c.Characters) {
		if err := c.Characters[name].Validate(); err != nil {
			return fmt.Errorf("character %q: %w", name, err)
		}
	}
	for _, name := range sortedKeys(c.Projectiles) {
		if err := c.Projectiles[name].Validate(); err != nil {
			return fmt.Errorf("projectile %q: %w", name, err)
		}
	}
	return nil
}

// Character returns the named profile
func (c *ProfilesConfig) Character(name string) (CharacterProfile, error) {
	p, ok := c.Characters[name]
	if !ok {
		return CharacterProfile{}, fmt.Errorf("%w: no character %q", ErrInvalidProfile, name)
	}
	return p, nil
}

// Projectile returns the named profile
func (c *ProfilesConfig) Projectile(name string) (ProjectileProfile, error) {
	p, ok := c.Projectiles[name]
	if !ok {
		return ProjectileProfile{}, fmt.Errorf("%w: no projectile %q", ErrInvalidProfile, name)
	}
	return p, nil
}

// Validate rejects sizes without area, negative speeds and unknown kinds
func (p CharacterProfile) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: size %gx%g", ErrInvalidProfile, p.Width, p.Height)
	}
	if _, err := p.EntityKind(); err != nil {
		return err
	}
	speeds := map[string]float64{
		"max_speed":      p.MaxSpeed,
		"acceleration":   p.Acceleration,
		"max_fall_speed": p.MaxFallSpeed,
		"jump_speed":     p.JumpSpeed,
		"climb_speed":    p.ClimbSpeed,
		"squeeze_speed":  p.SqueezeSpeed,
	}
	for _, name := range sortedKeys(speeds) {
		if speeds[name] < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidProfile, name)
		}
	}
	return nil
}

// EntityKind maps the kind name onto a body kind
func (p CharacterProfile) EntityKind() (entity.Kind, error) {
	switch p.Kind {
	case "", "friendly":
		return entity.KindFriendly, nil
	case "enemy":
		return entity.KindEnemy, nil
	case "default":
		return entity.KindDefault, nil
	}
	return 0, fmt.Errorf("%w: kind %q", ErrInvalidProfile, p.Kind)
}

// Props converts the profile into body tuning. Omitted switches default
// to on and an omitted gravity scale to 1.
func (p CharacterProfile) Props() entity.Props {
	props := entity.Props{
		MaxSpeed:        p.MaxSpeed,
		Acceleration:    p.Acceleration,
		GravityScale:    1,
		MaxFallSpeed:    p.MaxFallSpeed,
		JumpSpeed:       p.JumpSpeed,
		ClimbSpeed:      p.ClimbSpeed,
		SqueezeSpeed:    p.SqueezeSpeed,
		Heavy:           p.Heavy,
		Pushable:        p.Pushable,
		StopsOnReversal: true,
		CanJump:         true,
		CarriesRiders:   p.CarriesRiders,
	}
	if p.GravityScale != nil {
		props.GravityScale = *p.GravityScale
	}
	if p.StopsOnReversal != nil {
		props.StopsOnReversal = *p.StopsOnReversal
	}
	if p.CanJump != nil {
		props.CanJump = *p.CanJump
	}
	return props
}

// NewBody creates a body from the profile at (x, y)
func (p CharacterProfile) NewBody(name string, x, y float64) (*entity.Body, error) {
	kind, err := p.EntityKind()
	if err != nil {
		return nil, err
	}
	return entity.NewBody(name, kind, x, y, p.Width, p.Height, p.Props()), nil
}

// Validate rejects particles without area or speed
func (p ProjectileProfile) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: size %gx%g", ErrInvalidProfile, p.Width, p.Height)
	}
	if p.Speed <= 0 {
		return fmt.Errorf("%w: speed must be positive", ErrInvalidProfile)
	}
	if p.MaxRange < 0 {
		return fmt.Errorf("%w: max_range must not be negative", ErrInvalidProfile)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

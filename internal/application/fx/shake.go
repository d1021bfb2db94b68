// Package fx holds presentation effects triggered by physics events
package fx

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/younwookim/shine/internal/infrastructure/config"
)

// Shake is a decaying stage shake. Heavy bodies landing on scenery start it.
type Shake struct {
	cfg config.ScreenShakeConfig

	envelope *gween.Tween
	elapsed  float64
	strength float64
	active   bool
}

// NewShake creates an idle shake
func NewShake(cfg config.ScreenShakeConfig) *Shake {
	return &Shake{cfg: cfg}
}

// Shake restarts the effect at full intensity
func (s *Shake) Shake() {
	if !s.cfg.Enabled || s.cfg.Duration <= 0 {
		return
	}
	s.envelope = gween.New(float32(s.cfg.Intensity), 0, float32(s.cfg.Duration), ease.OutQuad)
	s.elapsed = 0
	s.strength = s.cfg.Intensity
	s.active = true
}

// Active reports whether the stage is still shaking
func (s *Shake) Active() bool { return s.active }

// Update advances the effect by dt seconds
func (s *Shake) Update(dt float64) {
	if !s.active {
		return
	}
	s.elapsed += dt
	v, done := s.envelope.Update(float32(dt))
	s.strength = float64(v)
	if done {
		s.active = false
		s.strength = 0
	}
}

// Offset returns the current draw offset of the stage
func (s *Shake) Offset() (float64, float64) {
	if !s.active {
		return 0, 0
	}
	phase := 2 * math.Pi * s.cfg.Frequency * s.elapsed
	return math.Sin(phase) * s.strength, math.Cos(phase*1.3) * s.strength
}

package system

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/younwookim/shine/internal/domain/entity"
)

// Platform is a static body moved along tween sequences. Either axis
// may be nil to keep the platform still on it.
type Platform struct {
	Body *entity.Body
	X    *gween.Sequence
	Y    *gween.Sequence
}

// PlatformSystem moves platforms and, through the dock registry, whatever
// rides on them
type PlatformSystem struct {
	docks     *DockRegistry
	platforms []*Platform
}

// NewPlatformSystem creates a platform system moving bodies through docks
func NewPlatformSystem(docks *DockRegistry) *PlatformSystem {
	return &PlatformSystem{docks: docks}
}

// NewShuttle builds a platform that travels (dx, dy) from the body's
// position over dur seconds and comes back, forever.
func NewShuttle(b *entity.Body, dx, dy, dur float64) *Platform {
	b.Static = true
	b.Props.CarriesRiders = true

	p := &Platform{Body: b}
	if dx != 0 {
		p.X = gween.NewSequence(
			gween.New(float32(b.X), float32(b.X+dx), float32(dur), ease.Linear),
			gween.New(float32(b.X+dx), float32(b.X), float32(dur), ease.Linear),
		)
	}
	if dy != 0 {
		p.Y = gween.NewSequence(
			gween.New(float32(b.Y), float32(b.Y+dy), float32(dur), ease.Linear),
			gween.New(float32(b.Y+dy), float32(b.Y), float32(dur), ease.Linear),
		)
	}
	return p
}

// Add registers a platform
func (s *PlatformSystem) Add(p *Platform) {
	s.platforms = append(s.platforms, p)
}

// Platforms returns the registered platforms
func (s *PlatformSystem) Platforms() []*Platform { return s.platforms }

// Update advances every platform by dt seconds. Finished sequences start
// over.
func (s *PlatformSystem) Update(dt float64) {
	for _, p := range s.platforms {
		var dx, dy float64
		if x, ok := advance(p.X, dt); ok {
			dx = x - p.Body.X
		}
		if y, ok := advance(p.Y, dt); ok {
			dy = y - p.Body.Y
		}
		if dx == 0 && dy == 0 {
			continue
		}
		s.docks.Move(p.Body, dx, dy)
	}
}

func advance(seq *gween.Sequence, dt float64) (float64, bool) {
	if seq == nil {
		return 0, false
	}
	v, _, done := seq.Update(float32(dt))
	if done {
		seq.Reset()
	}
	return float64(v), true
}

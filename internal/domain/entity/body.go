package entity

import "github.com/younwookim/shine/internal/domain/geom"

// Kind is a bit set describing what an entity is. Tile layers and bodies
// use it as a collision mask.
type Kind uint32

const (
	// KindDefault is solid, dockable scenery: tile layers, rocks, elevators
	KindDefault Kind = 1 << iota
	KindFriendly
	KindEnemy
	KindParticle
	KindLadder
)

// KindCharacter covers everything that is steered by a command source
const KindCharacter = KindFriendly | KindEnemy

// Has reports whether any bit of o is set in k
func (k Kind) Has(o Kind) bool { return k&o != 0 }

// Mount is anything a body can rest on: another body or a tile layer.
type Mount interface {
	MountKind() Kind
}

// Commands is an already-sampled command snapshot for one frame
type Commands struct {
	Up, Down    bool
	Left, Right bool
	Jump        bool
}

// CommandSource produces the command snapshot of a body.
// Keyboards, scripts and replays all implement it.
type CommandSource interface {
	Commands(b *Body) Commands
}

// Props are the tunable physics constants of a body
type Props struct {
	MaxSpeed        float64 // px/s, horizontal clamp
	Acceleration    float64 // px/s², 0 reaches MaxSpeed at once
	GravityScale    float64 // multiplier on the stage gravity
	MaxFallSpeed    float64 // px/s, 0 uses the stage default
	JumpSpeed       float64 // px/s
	ClimbSpeed      float64 // px/s
	SqueezeSpeed    float64 // px/s, >0 lets heavy bodies squeeze this one
	Heavy           bool
	Pushable        bool
	StopsOnReversal bool
	CanJump         bool
	CarriesRiders   bool // docked riders move along with this body
}

// DefaultProps returns the character tuning used when no profile is given
func DefaultProps() Props {
	return Props{
		MaxSpeed:        150,
		Acceleration:    300,
		GravityScale:    1,
		JumpSpeed:       330,
		ClimbSpeed:      70,
		StopsOnReversal: true,
		CanJump:         true,
	}
}

// LadderLock is zero while the body is free. While locked it holds the
// feet y last recorded inside the ladder.
type LadderLock float64

// Locked reports whether the body is climbing
func (l LadderLock) Locked() bool { return l != 0 }

// Body is the physical part of a game object: an axis-aligned rectangle,
// its velocity, its tuning and the transient flags the physics core keeps.
// The owning game object composes it; physics only borrows it during a tick.
type Body struct {
	ID   EntityID
	Name string
	Kind Kind
	Mask Kind // kinds this body collides with

	X, Y   float64 // top-left, pixels
	W, H   float64
	VX, VY float64 // px/s

	Props  Props
	Facing int // +1 right, -1 left

	// Per sub-step flags
	AtWall  bool
	AtExit  bool
	OnSlope int // signed slope code of the ramp underfoot

	Ladder      LadderLock
	WhichLadder *Body

	// Ground[0] is the current mount, Ground[1] the one from the previous sub-step
	Ground      [2]Mount
	JumpLatched bool

	// Special is set by game code while an externally driven action plays
	Special bool

	// Optional capabilities
	Brain      CommandSource
	Projectile *Projectile

	// ManualCollisions opts out of automatic entity-vs-entity resolution
	ManualCollisions bool
	// Static bodies are never integrated; only game code moves them
	Static bool
}

// NewBody creates a body at pixel position (x, y) facing right
func NewBody(name string, kind Kind, x, y, w, h float64, props Props) *Body {
	return &Body{
		Name:   name,
		Kind:   kind,
		Mask:   KindDefault | KindCharacter | KindParticle | KindLadder,
		X:      x,
		Y:      y,
		W:      w,
		H:      h,
		Props:  props,
		Facing: 1,
	}
}

// MountKind implements Mount
func (b *Body) MountKind() Kind { return b.Kind }

// Rect returns the body's bounding box
func (b *Body) Rect() geom.Rect { return geom.Rect{X: b.X, Y: b.Y, W: b.W, H: b.H} }

// Bottom returns the feet y coordinate
func (b *Body) Bottom() float64 { return b.Y + b.H }

// CenterX returns the horizontal center
func (b *Body) CenterX() float64 { return b.X + b.W/2 }

// Mount returns what the body currently rests on, or nil
func (b *Body) Mount() Mount { return b.Ground[0] }

// PrevMount returns what the body rested on before this sub-step, or nil
func (b *Body) PrevMount() Mount { return b.Ground[1] }

// Mounted reports whether the body currently rests on something
func (b *Body) Mounted() bool { return b.Ground[0] != nil }

// WasMounted reports whether the body rested on something before this sub-step
func (b *Body) WasMounted() bool { return b.Ground[1] != nil }

// Commands samples the body's command source. Bodies without one get an
// empty snapshot.
func (b *Body) Commands() (Commands, bool) {
	if b.Brain == nil {
		return Commands{}, false
	}
	return b.Brain.Commands(b), true
}

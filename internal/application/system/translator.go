package system

import (
	"math"

	"github.com/younwookim/shine/internal/domain/entity"
	"github.com/younwookim/shine/internal/infrastructure/config"
)

// Shaker is told when a heavy body lands on scenery
type Shaker interface {
	Shake()
}

// Translator turns accepted collisions into state changes and events
type Translator struct {
	config *config.PhysicsConfig
	docks  *DockRegistry
	events *EventBus

	Shaker Shaker
}

// NewTranslator creates a translator emitting on events
func NewTranslator(cfg *config.PhysicsConfig, docks *DockRegistry, events *EventBus) *Translator {
	return &Translator{
		config: cfg,
		docks:  docks,
		events: events,
	}
}

// Resolve classifies c and applies its side effects to the mover c.A.
// Collisions without magnitude are ignored.
func (t *Translator) Resolve(c *Collision) {
	if c == nil || c.A == nil || c.Magnitude == 0 {
		return
	}
	a := c.A

	if t.resolveParticle(c) {
		return
	}
	if t.resolveLadder(c) {
		return
	}

	p := c.TileProps()
	switch {
	case p.Liquid != entity.LiquidNone:
		a.VY = t.config.Physics.LiquidSinkSpeed
		t.emit(Event{Type: EventHitLiquidGround, Body: a, Collision: *c, Liquid: p.Liquid})
	case p.Exit:
		a.AtExit = true
		t.emit(Event{Type: EventReachedExit, Body: a, Collision: *c})
	case c.Slope != 0 && a.WasMounted():
		t.glue(c)
	default:
		t.resolveSolid(c)
	}
}

// resolveParticle handles projectile hits in both directions. A
// projectile resolves its impact once and never hits its shooter.
func (t *Translator) resolveParticle(c *Collision) bool {
	a, other := c.A, c.B
	if other == nil {
		// stuck in scenery
		if proj := a.Projectile; proj != nil {
			proj.Spent = true
		}
		return false
	}

	if other.Kind.Has(entity.KindParticle) {
		if proj := other.Projectile; proj != nil && proj.Strike(a) {
			t.emit(Event{Type: EventHitParticle, Body: a, Other: other, Collision: *c})
		}
		return true
	}

	if a.Kind.Has(entity.KindParticle) {
		if proj := a.Projectile; proj != nil && proj.Strike(other) {
			t.emit(Event{Type: EventHitParticle, Body: other, Other: a, Collision: *c})
		}
		return true
	}
	return false
}

// resolveLadder records the touched ladder. Ladders only block a free
// body falling onto their top.
func (t *Translator) resolveLadder(c *Collision) bool {
	if c.B == nil || !c.B.Kind.Has(entity.KindLadder) {
		return false
	}
	a := c.A
	a.WhichLadder = c.B
	return a.Ladder.Locked() || c.NormalX != 0 || c.NormalY > 0
}

// glue keeps the mover's feet on the ramp surface
func (t *Translator) glue(c *Collision) {
	a := c.A
	surface := SlopeSurfaceY(c.Tile.Rect, c.Tile.Props, c.XIn)
	if dy := surface - a.Bottom(); dy != 0 {
		t.docks.Move(a, 0, dy)
	}
	a.VY = 0
	t.docks.Dock(a, c.Tile.Layer)
	a.OnSlope = c.Slope
}

func (t *Translator) resolveSolid(c *Collision) {
	a := c.A
	th := t.config.Collision.NormalThreshold

	impactX := math.Abs(a.VX)
	impactY := math.Abs(a.VY)

	// back to where the pair just touches
	yOrig := a.Y
	a.X -= c.SeparateX
	a.Y -= c.SeparateY

	if c.NormalY < -th {
		t.bottom(c, yOrig, impactY)
	}
	if c.NormalY > th {
		if a.VY < 0 {
			a.VY = 0
		}
		c.Impact = impactY
		t.emit(Event{Type: EventBumpTop, Body: a, Other: c.B, Collision: *c})
	}
	if math.Abs(c.NormalX) > th {
		t.side(c, impactX)
	}
}

func (t *Translator) bottom(c *Collision, yOrig, impactY float64) {
	a := c.A
	other := c.Other()

	if a.Props.Heavy && t.Shaker != nil && c.OtherKind().Has(entity.KindDefault) && a.PrevMount() != other {
		t.Shaker.Shake()
	}

	if v := c.B; v != nil && a.Props.Heavy && v.Props.SqueezeSpeed > 0 && v.Mounted() && a.VY > 0 {
		ss := v.Props.SqueezeSpeed
		if a.VY > ss {
			// keep only the share of the penetration the victim tolerates
			a.Y = yOrig - c.SeparateY + c.SeparateY*(ss/a.VY)
		} else {
			a.Y = yOrig
		}
		a.VY = ss
		t.emit(Event{Type: EventSqueezedTop, Body: v, Other: a, Collision: *c})
		return
	}

	if a.VY > 0 {
		a.VY = 0
	}
	c.Impact = impactY
	t.docks.Dock(a, other)
	t.emit(Event{Type: EventBumpBottom, Body: a, Other: c.B, Collision: *c})
}

func (t *Translator) side(c *Collision, impactX float64) {
	a := c.A
	c.Impact = impactX

	bumped := false
	if c.B != nil && c.B.Props.Pushable && a.WasMounted() {
		t.push(c)
		bumped = true
	} else if a.VX*c.NormalX < 0 {
		a.VX = 0
		bumped = true
	}
	if !bumped {
		return
	}

	if c.OtherKind().Has(entity.KindDefault) {
		a.AtWall = true
	}
	ev := EventBumpLeft
	if c.NormalX < 0 {
		ev = EventBumpRight
	}
	t.emit(Event{Type: ev, Body: a, Other: c.B, Collision: *c})
}

// push slides the pushee away proportionally to the impact speed and
// lets the pusher follow at the pushee's top speed.
func (t *Translator) push(c *Collision) {
	a, pushee := c.A, c.B
	if c.Impact <= 0 {
		a.VX = 0
		return
	}
	moveX := c.SeparateX * math.Abs(pushee.Props.MaxSpeed/c.Impact)
	t.docks.Move(a, moveX, 0)
	t.docks.Move(pushee, moveX, 0)

	facing := a.Facing
	if facing == 0 {
		facing = 1
	}
	a.VX = pushee.Props.MaxSpeed * float64(facing)
}

func (t *Translator) emit(ev Event) {
	t.events.Emit(ev)
}

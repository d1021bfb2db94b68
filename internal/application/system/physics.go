package system

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/solarlune/resolv"

	"github.com/younwookim/shine/internal/domain/entity"
	"github.com/younwookim/shine/internal/infrastructure/config"
)

var (
	// ErrNoCommandSource is returned when a character is attached without a brain
	ErrNoCommandSource = errors.New("character has no command source")
	// ErrZeroSize is returned when a body without area is attached
	ErrZeroSize = errors.New("body has no area")
	// ErrAlreadyAttached is returned when a body is attached twice
	ErrAlreadyAttached = errors.New("body already attached")
)

const (
	bodyTag = "body"

	// instantAccel stands in for "reach max speed at once"
	instantAccel = 999e9

	// leftover frame time below this is dropped instead of sub-stepped
	stepEpsilon = 1e-9
)

// PhysicsSystem moves attached bodies through the stage one frame at a time
type PhysicsSystem struct {
	config     *config.PhysicsConfig
	stage      *entity.Stage
	docks      *DockRegistry
	translator *Translator

	space   *resolv.Space
	bodies  []*entity.Body
	objects map[*entity.Body]*resolv.Object
}

// NewPhysicsSystem creates a new physics system emitting on events
func NewPhysicsSystem(cfg *config.PhysicsConfig, stage *entity.Stage, events *EventBus) *PhysicsSystem {
	docks := NewDockRegistry()
	s := &PhysicsSystem{
		config:     cfg,
		stage:      stage,
		docks:      docks,
		translator: NewTranslator(cfg, docks, events),
		objects:    make(map[*entity.Body]*resolv.Object),
	}
	docks.OnMove = s.afterMove

	cell := stage.TileSize
	if cell <= 0 {
		cell = 16
	}
	w, h := int(stage.PixelWidth()), int(stage.PixelHeight())
	if w <= 0 || h <= 0 {
		w, h = cell, cell
	}
	s.space = resolv.NewSpace(w, h, cell, cell)
	return s
}

// Docks returns the docking registry
func (s *PhysicsSystem) Docks() *DockRegistry { return s.docks }

// Translator returns the collision translator
func (s *PhysicsSystem) Translator() *Translator { return s.translator }

// Bodies returns the attached bodies in attach order
func (s *PhysicsSystem) Bodies() []*entity.Body { return s.bodies }

// Attach adds b to the simulation. Characters must have a command source.
func (s *PhysicsSystem) Attach(b *entity.Body) error {
	if b.W <= 0 || b.H <= 0 {
		return fmt.Errorf("attach %q: %w", b.Name, ErrZeroSize)
	}
	if _, ok := s.objects[b]; ok {
		return fmt.Errorf("attach %q: %w", b.Name, ErrAlreadyAttached)
	}
	if b.Kind.Has(entity.KindCharacter) && b.Brain == nil {
		return fmt.Errorf("attach %q: %w", b.Name, ErrNoCommandSource)
	}

	obj := resolv.NewObject(b.X, b.Y, b.W, b.H, bodyTag)
	obj.SetShape(resolv.NewRectangle(0, 0, b.W, b.H))
	obj.Data = b
	s.space.Add(obj)

	s.objects[b] = obj
	s.bodies = append(s.bodies, b)
	return nil
}

// Detach removes b from the simulation and drops every relation to it
func (s *PhysicsSystem) Detach(b *entity.Body) {
	obj, ok := s.objects[b]
	if !ok {
		return
	}
	s.space.Remove(obj)
	delete(s.objects, b)
	for i, other := range s.bodies {
		if other == b {
			s.bodies = append(s.bodies[:i], s.bodies[i+1:]...)
			break
		}
	}

	s.docks.Forget(b)
	for _, other := range s.bodies {
		for i := range other.Ground {
			if other.Ground[i] == entity.Mount(b) {
				other.Ground[i] = nil
			}
		}
		if other.WhichLadder == b {
			other.WhichLadder = nil
			other.Ladder = 0
		}
	}
}

// Update ticks every attached, non-static body once, in attach order
func (s *PhysicsSystem) Update(dt float64) {
	for _, b := range s.bodies {
		s.sync(b)
	}
	for _, b := range s.bodies {
		if b.Static {
			continue
		}
		s.Tick(b, dt)
	}
}

// Tick advances one body by one frame
func (s *PhysicsSystem) Tick(b *entity.Body, dt float64) {
	dt = math.Max(0, math.Min(dt, s.config.Physics.MaxFrameDt))
	ceiling := s.config.Physics.SubstepCeiling

	ax := s.resolveCommands(b)

	for remaining := dt; remaining > stepEpsilon; {
		step := math.Min(ceiling, remaining)
		s.integrate(b, ax, step)
		s.beginContacts(b)
		s.moveAndCollide(b, step)
		remaining -= step
	}
	s.sync(b)
}

// resolveCommands reads the command snapshot and returns the horizontal
// acceleration for this frame.
func (s *PhysicsSystem) resolveCommands(b *entity.Body) float64 {
	cmd, ok := b.Commands()
	if !ok {
		// particles keep flying, everything else without a brain stands still
		if !b.Kind.Has(entity.KindParticle) {
			b.VX = 0
		}
		return 0
	}

	var ax float64
	switch {
	case cmd.Left && !cmd.Right:
		ax = s.run(b, -1)
	case cmd.Right && !cmd.Left:
		ax = s.run(b, 1)
	default:
		b.VX = 0
	}

	if b.Ladder.Locked() {
		b.VY = 0
	}
	switch {
	case cmd.Up:
		s.climbUp(b)
	case cmd.Down:
		s.climbDown(b)
	case b.Props.CanJump:
		s.jump(b, cmd.Jump)
	}
	return ax
}

func (s *PhysicsSystem) run(b *entity.Body, dir int) float64 {
	if b.Props.StopsOnReversal && b.VX*float64(dir) < 0 {
		b.VX = 0
	}
	b.Facing = dir
	if b.Ladder.Locked() {
		s.unlockLadder(b)
	}

	accel := b.Props.Acceleration
	if accel == 0 {
		accel = instantAccel
	}
	return float64(dir) * accel
}

func (s *PhysicsSystem) climbUp(b *entity.Body) {
	l := b.WhichLadder
	feet := b.Bottom()
	if b.Ladder.Locked() {
		if l == nil || feet <= l.Y {
			s.unlockLadder(b)
			return
		}
		b.VY = -b.Props.ClimbSpeed
		return
	}
	if l != nil && feet > l.Y && feet <= l.Bottom() {
		s.lockLadder(b)
	}
}

func (s *PhysicsSystem) climbDown(b *entity.Body) {
	l := b.WhichLadder
	feet := b.Bottom()
	if b.Ladder.Locked() {
		if l == nil || feet >= l.Bottom() {
			s.unlockLadder(b)
			return
		}
		b.VY = b.Props.ClimbSpeed
		return
	}
	if l != nil && feet < l.Bottom() && b.Mounted() {
		s.lockLadder(b)
	}
}

func (s *PhysicsSystem) jump(b *entity.Body, pressed bool) {
	if !pressed {
		b.JumpLatched = false
		return
	}
	if !b.JumpLatched && (b.Mounted() || b.Ladder.Locked()) {
		if b.Ladder.Locked() {
			s.unlockLadder(b)
		}
		b.VY = -b.Props.JumpSpeed
		s.docks.Undock(b)
	}
	b.JumpLatched = true
}

// lockLadder puts b into climbing position on its ladder
func (s *PhysicsSystem) lockLadder(b *entity.Body) {
	l := b.WhichLadder
	b.Ladder = ladderMark(b.Bottom())
	b.VX = 0
	b.VY = 0
	s.docks.Move(b, l.CenterX()-b.CenterX(), 0)
}

func (s *PhysicsSystem) unlockLadder(b *entity.Body) {
	b.Ladder = 0
}

// ladderMark records feet y as a lock value. Zero means "free", so a
// body at y == 0 is nudged to a tiny nonzero mark.
func ladderMark(feet float64) entity.LadderLock {
	if feet == 0 {
		return entity.LadderLock(math.SmallestNonzeroFloat64)
	}
	return entity.LadderLock(feet)
}

// integrate applies acceleration and gravity for one sub-step
func (s *PhysicsSystem) integrate(b *entity.Body, ax, dt float64) {
	locked := b.Ladder.Locked()
	if locked {
		b.VX = 0
	}

	b.VX += ax * dt
	if limit := b.Props.MaxSpeed; limit > 0 && math.Abs(b.VX) > limit {
		b.VX = math.Copysign(limit, b.VX)
	}

	if !locked {
		b.VY += s.config.Physics.Gravity * b.Props.GravityScale * dt
	}

	// don't take off from a ramp while walking down it
	if b.OnSlope != 0 && b.Mounted() {
		steep := math.Abs(float64(b.OnSlope))
		sign := math.Copysign(1, float64(b.OnSlope))
		if descend := -sign * b.VX / steep; b.VY < descend {
			b.VY = descend
		}
	}

	maxFall := b.Props.MaxFallSpeed
	if maxFall == 0 {
		maxFall = s.config.Physics.MaxFallSpeed
	}
	if maxFall > 0 && math.Abs(b.VY) > maxFall {
		b.VY = math.Copysign(maxFall, b.VY)
	}
}

// beginContacts resets the per sub-step flags. The current mount becomes
// the previous one and b has to dock again if it still rests on something.
func (s *PhysicsSystem) beginContacts(b *entity.Body) {
	b.OnSlope = 0
	b.AtWall = false
	b.AtExit = false
	if !b.Ladder.Locked() {
		b.WhichLadder = nil
	}
	b.Ground[1] = b.Ground[0]
	s.docks.Undock(b)
}

// moveAndCollide advances x then y, resolving collisions after each axis
func (s *PhysicsSystem) moveAndCollide(b *entity.Body, dt float64) {
	if dx := b.VX * dt; dx != 0 {
		s.docks.Move(b, dx, 0)
		s.resolveAxis(b, b.VX, 0)
	}

	if dy := b.VY * dt; dy != 0 {
		s.docks.Move(b, 0, dy)
	}
	s.resolveAxis(b, 0, b.VY)

	if b.Ladder.Locked() {
		b.Ladder = ladderMark(b.Bottom())
	}
}

func (s *PhysicsSystem) resolveAxis(b *entity.Body, vx, vy float64) {
	// ladders first, so the ladder reference is known before anything else
	candidates := s.candidates(b)
	for _, other := range candidates {
		if other.Kind.Has(entity.KindLadder) {
			s.collideBody(b, other)
		}
	}

	for _, layer := range s.stage.Layers {
		if !layer.Mask.Has(b.Kind) {
			continue
		}
		for i := 0; i < s.config.Physics.MaxResolves; i++ {
			c, ok := scanTiles(layer, b, vx, vy, s.config.Physics.ScanLookahead, classifyTile)
			if !ok {
				break
			}
			x0, y0 := b.X, b.Y
			s.translator.Resolve(&c)
			if b.X == x0 && b.Y == y0 {
				break
			}
		}
	}

	for _, other := range candidates {
		if !other.Kind.Has(entity.KindLadder) {
			s.collideBody(b, other)
		}
	}
}

func (s *PhysicsSystem) collideBody(b, other *entity.Body) {
	c, ok := Collide(b, other)
	if !ok {
		return
	}
	s.translator.Resolve(&c)
	s.sync(b)
}

// candidates returns the bodies sharing a broad-phase cell with b that
// take part in automatic collision handling, ordered by ID.
//
// resolv registers an object in the cells of [X, X+W-1], which drops
// overlaps thinner than a pixel. The query therefore reaches one pixel
// further up and left and covers the far edge itself.
func (s *PhysicsSystem) candidates(b *entity.Body) []*entity.Body {
	if b.ManualCollisions {
		return nil
	}
	if _, ok := s.objects[b]; !ok {
		return nil
	}
	s.sync(b)

	cx0, cy0 := s.space.WorldToSpace(b.X-1, b.Y-1)
	cx1, cy1 := s.space.WorldToSpace(b.X+b.W, b.Y+b.H)

	seen := make(map[*entity.Body]bool)
	var out []*entity.Body
	for cy := cy0; cy <= cy1; cy++ {
		for cx := cx0; cx <= cx1; cx++ {
			cell := s.space.Cell(cx, cy)
			if cell == nil {
				continue
			}
			for _, o := range cell.Objects {
				other, ok := o.Data.(*entity.Body)
				if !ok || other == b || seen[other] || other.ManualCollisions {
					continue
				}
				seen[other] = true
				if !b.Mask.Has(other.Kind) || !other.Mask.Has(b.Kind) {
					continue
				}
				out = append(out, other)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TileLayerCollide returns the first accepted tile collision for b over
// every stage layer whose mask matches b.
func (s *PhysicsSystem) TileLayerCollide(b *entity.Body, vx, vy float64) (Collision, bool) {
	for _, layer := range s.stage.Layers {
		if !layer.Mask.Has(b.Kind) {
			continue
		}
		if c, ok := scanTiles(layer, b, vx, vy, s.config.Physics.ScanLookahead, classifyTile); ok {
			return c, true
		}
	}
	return Collision{}, false
}

// afterMove keeps b inside the stage and its broad-phase object current
func (s *PhysicsSystem) afterMove(b *entity.Body) {
	if w := s.stage.PixelWidth(); w > 0 {
		if b.X < 0 {
			b.X = 0
			if b.VX < 0 {
				b.VX = 0
			}
		} else if limit := w - b.W; b.X > limit {
			b.X = limit
			if b.VX > 0 {
				b.VX = 0
			}
		}
	}
	if h := s.stage.PixelHeight(); h > 0 {
		if b.Y < 0 {
			b.Y = 0
			if b.VY < 0 {
				b.VY = 0
			}
		} else if limit := h - b.H; b.Y > limit {
			b.Y = limit
			if b.VY > 0 {
				b.VY = 0
			}
		}
	}
	s.sync(b)
}

func (s *PhysicsSystem) sync(b *entity.Body) {
	obj, ok := s.objects[b]
	if !ok {
		return
	}
	obj.X, obj.Y = b.X, b.Y
	obj.Update()
}

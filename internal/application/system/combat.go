package system

import (
	"fmt"
	"math"

	"github.com/younwookim/shine/internal/domain/entity"
	"github.com/younwookim/shine/internal/ecs"
	"github.com/younwookim/shine/internal/infrastructure/config"
)

// launchPoint is where an arrow left the bow
type launchPoint struct {
	x, y float64
}

// CombatSystem fires arrows through the physics core and removes them
// once they are spent
type CombatSystem struct {
	world   *ecs.World
	physics *PhysicsSystem
	arrow   config.ProjectileProfile

	inFlight map[*entity.Body]launchPoint
	hits     map[*entity.Body]int

	// Event callbacks
	OnHit func(target, arrow *entity.Body)
}

// NewCombatSystem creates a combat system shooting arrow-profiled particles
func NewCombatSystem(world *ecs.World, physics *PhysicsSystem, events *EventBus, arrow config.ProjectileProfile) *CombatSystem {
	s := &CombatSystem{
		world:    world,
		physics:  physics,
		arrow:    arrow,
		inFlight: make(map[*entity.Body]launchPoint),
		hits:     make(map[*entity.Body]int),
	}
	if events != nil {
		events.Subscribe(EventHitParticle, s.onHitParticle)
	}
	world.OnDestroy(s.forget)
	return s
}

// Fire shoots an arrow the way shooter faces
func (s *CombatSystem) Fire(shooter *entity.Body) (*entity.Body, error) {
	p := s.arrow
	arrow := entity.NewArrow(shooter, p.Width, p.Height, p.Speed, p.LaunchAngleDeg, p.GravityScale)
	if err := s.launch(arrow); err != nil {
		return nil, err
	}
	return arrow, nil
}

// FireAt shoots an arrow from shooter's center toward (targetX, targetY)
func (s *CombatSystem) FireAt(shooter *entity.Body, targetX, targetY float64) (*entity.Body, error) {
	p := s.arrow
	arrow := entity.NewArrowDirected(shooter, p.Width, p.Height, targetX, targetY, p.Speed, p.GravityScale)
	if err := s.launch(arrow); err != nil {
		return nil, err
	}
	return arrow, nil
}

func (s *CombatSystem) launch(arrow *entity.Body) error {
	if err := s.physics.Attach(arrow); err != nil {
		return fmt.Errorf("fire: %w", err)
	}
	s.world.Spawn(arrow)
	s.inFlight[arrow] = launchPoint{x: arrow.X, y: arrow.Y}
	return nil
}

// InFlight returns the number of arrows not yet removed
func (s *CombatSystem) InFlight() int { return len(s.inFlight) }

// Hits returns how many arrows struck b
func (s *CombatSystem) Hits(b *entity.Body) int { return s.hits[b] }

// Update spends arrows past their range and removes every spent arrow.
// Call it after the physics update of the frame.
func (s *CombatSystem) Update() int {
	if limit := s.arrow.MaxRange; limit > 0 {
		for arrow, from := range s.inFlight {
			if math.Hypot(arrow.X-from.x, arrow.Y-from.y) > limit {
				arrow.Projectile.Spent = true
			}
		}
	}
	return s.world.Sweep()
}

func (s *CombatSystem) onHitParticle(ev Event) {
	s.hits[ev.Body]++
	if s.OnHit != nil {
		s.OnHit(ev.Body, ev.Other)
	}
}

func (s *CombatSystem) forget(b *entity.Body) {
	if _, ok := s.inFlight[b]; !ok {
		return
	}
	delete(s.inFlight, b)
	s.physics.Detach(b)
}

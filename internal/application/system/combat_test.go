package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/shine/internal/domain/entity"
	"github.com/younwookim/shine/internal/ecs"
	"github.com/younwookim/shine/internal/infrastructure/config"
)

func createTestArrowProfile() config.ProjectileProfile {
	return config.ProjectileProfile{Width: 8, Height: 2, Speed: 300}
}

type combatFixture struct {
	world   *ecs.World
	physics *PhysicsSystem
	combat  *CombatSystem
	grid    *entity.Grid
}

func newCombatFixture(t *testing.T, arrow config.ProjectileProfile) *combatFixture {
	t.Helper()
	stage, grid := createTestStage(20, 8)
	bus := NewEventBus()
	world := ecs.NewWorld()
	physics := NewPhysicsSystem(createTestPhysicsConfig(), stage, bus)
	return &combatFixture{
		world:   world,
		physics: physics,
		combat:  NewCombatSystem(world, physics, bus, arrow),
		grid:    grid,
	}
}

func (f *combatFixture) spawn(t *testing.T, b *entity.Body) {
	t.Helper()
	f.world.Spawn(b)
	require.NoError(t, f.physics.Attach(b))
}

func (f *combatFixture) step(frames int) {
	for i := 0; i < frames; i++ {
		f.physics.Update(frame)
		f.combat.Update()
	}
}

func TestCombatSystem_Fire(t *testing.T) {
	f := newCombatFixture(t, createTestArrowProfile())
	archer, _ := newCharacter("baleog", 16, 96)
	archer.Facing = -1
	f.spawn(t, archer)

	arrow, err := f.combat.Fire(archer)
	require.NoError(t, err)

	assert.NotZero(t, arrow.ID)
	assert.True(t, f.world.Exists(arrow.ID))
	assert.Contains(t, f.physics.Bodies(), arrow)
	assert.Equal(t, 1, f.combat.InFlight())
	assert.Equal(t, 8.0, arrow.X, "leaves from the front edge")
	assert.Equal(t, -300.0, arrow.VX)
	assert.Same(t, archer, arrow.Projectile.Origin)
}

func TestCombatSystem_FireAt(t *testing.T) {
	f := newCombatFixture(t, createTestArrowProfile())
	archer, _ := newCharacter("baleog", 16, 96)
	f.spawn(t, archer)

	arrow, err := f.combat.FireAt(archer, 24, 0)
	require.NoError(t, err)

	assert.InDelta(t, 0, arrow.VX, 1e-9)
	assert.InDelta(t, -300, arrow.VY, 1e-9)
}

func TestCombatSystem_FireRejected(t *testing.T) {
	f := newCombatFixture(t, config.ProjectileProfile{Speed: 300})
	archer, _ := newCharacter("baleog", 16, 96)
	f.spawn(t, archer)

	_, err := f.combat.Fire(archer)
	require.ErrorIs(t, err, ErrZeroSize)
	assert.Zero(t, f.combat.InFlight())
	assert.Len(t, f.world.Bodies(), 1)
}

func TestCombatSystem_HitRemovesArrow(t *testing.T) {
	f := newCombatFixture(t, createTestArrowProfile())
	archer, _ := newCharacter("baleog", 16, 96)
	target, _ := newCharacter("guard", 96, 96)
	f.spawn(t, archer)
	f.spawn(t, target)

	var struck []*entity.Body
	f.combat.OnHit = func(b, _ *entity.Body) { struck = append(struck, b) }

	arrow, err := f.combat.Fire(archer)
	require.NoError(t, err)

	f.step(30)

	assert.Equal(t, 1, f.combat.Hits(target))
	assert.Zero(t, f.combat.Hits(archer))
	assert.Equal(t, []*entity.Body{target}, struck)
	assert.False(t, f.world.Exists(arrow.ID))
	assert.NotContains(t, f.physics.Bodies(), arrow)
	assert.Zero(t, f.combat.InFlight())
}

func TestCombatSystem_ArrowStopsInWall(t *testing.T) {
	f := newCombatFixture(t, createTestArrowProfile())
	f.grid.Set(12, 6, entity.TileProps{Strength: 1})
	archer, _ := newCharacter("baleog", 16, 96)
	f.spawn(t, archer)

	arrow, err := f.combat.Fire(archer)
	require.NoError(t, err)

	// the arrow reaches the wall on the 31st frame
	f.step(40)

	assert.True(t, arrow.Projectile.Spent)
	assert.Nil(t, arrow.Projectile.Target)
	assert.False(t, f.world.Exists(arrow.ID))
	assert.LessOrEqual(t, arrow.X+arrow.W, 192.0)
}

func TestCombatSystem_MaxRange(t *testing.T) {
	profile := createTestArrowProfile()
	profile.MaxRange = 52
	f := newCombatFixture(t, profile)
	archer, _ := newCharacter("baleog", 16, 96)
	f.spawn(t, archer)

	arrow, err := f.combat.Fire(archer)
	require.NoError(t, err)

	f.step(5)
	assert.True(t, f.world.Exists(arrow.ID), "25px out")

	f.step(10)
	assert.False(t, f.world.Exists(arrow.ID))
	assert.InDelta(t, 32+55.0, arrow.X, 1e-6, "removed right after passing the range")
}

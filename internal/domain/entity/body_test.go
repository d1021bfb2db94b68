package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource Commands

func (f fixedSource) Commands(*Body) Commands { return Commands(f) }

func TestNewBody(t *testing.T) {
	b := NewBody("erik", KindFriendly, 10, 20, 16, 24, DefaultProps())

	assert.Equal(t, 1, b.Facing)
	assert.Equal(t, 44.0, b.Bottom())
	assert.Equal(t, 18.0, b.CenterX())
	assert.Equal(t, KindFriendly, b.MountKind())
	assert.False(t, b.Mounted())
	assert.False(t, b.WasMounted())

	r := b.Rect()
	assert.Equal(t, 10.0, r.X)
	assert.Equal(t, 24.0, r.H)
}

func TestBody_Commands(t *testing.T) {
	b := NewBody("erik", KindFriendly, 0, 0, 16, 16, DefaultProps())

	_, ok := b.Commands()
	assert.False(t, ok)

	b.Brain = fixedSource{Left: true, Jump: true}
	cmd, ok := b.Commands()
	require.True(t, ok)
	assert.True(t, cmd.Left)
	assert.True(t, cmd.Jump)
	assert.False(t, cmd.Right)
}

func TestBody_Ground(t *testing.T) {
	b := NewBody("erik", KindFriendly, 0, 0, 16, 16, DefaultProps())
	rock := NewBody("rock", KindDefault, 0, 16, 16, 16, DefaultProps())

	b.Ground[1] = rock
	assert.True(t, b.WasMounted())
	assert.Equal(t, Mount(rock), b.PrevMount())
	assert.Nil(t, b.Mount())
}

func TestKind_Has(t *testing.T) {
	assert.True(t, KindCharacter.Has(KindEnemy))
	assert.True(t, KindCharacter.Has(KindFriendly))
	assert.False(t, KindCharacter.Has(KindParticle))
	assert.False(t, KindDefault.Has(KindLadder))
}

func TestLadderLock(t *testing.T) {
	var l LadderLock
	assert.False(t, l.Locked())
	l = 42
	assert.True(t, l.Locked())
}

func TestProjectile_Strike(t *testing.T) {
	shooter := NewBody("baleog", KindFriendly, 0, 0, 16, 16, DefaultProps())
	target := NewBody("guard", KindEnemy, 100, 0, 16, 16, DefaultProps())

	hits := 0
	arrow := NewArrow(shooter, 12, 4, 300, 0, 0)
	arrow.Projectile.OnHit = func(*Body) { hits++ }

	assert.False(t, arrow.Projectile.Strike(shooter), "no self hit")
	assert.True(t, arrow.Projectile.Strike(target))
	assert.False(t, arrow.Projectile.Strike(target), "resolves only once")
	assert.Equal(t, 1, hits)
	assert.Same(t, target, arrow.Projectile.Target)
}

func TestNewArrow(t *testing.T) {
	tests := []struct {
		name   string
		facing int
		angle  float64
		wantX  float64
		wantVX float64
		wantVY float64
	}{
		{"right flat", 1, 0, 16, 300, 0},
		{"left flat", -1, 0, -12, -300, 0},
		{"right upward", 1, 90, 16, 0, -300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shooter := NewBody("baleog", KindFriendly, 0, 0, 16, 16, DefaultProps())
			shooter.Facing = tt.facing

			a := NewArrow(shooter, 12, 4, 300, tt.angle, 0.5)
			assert.Equal(t, KindParticle, a.Kind)
			assert.InDelta(t, tt.wantX, a.X, 1e-9)
			assert.InDelta(t, 6.0, a.Y, 1e-9)
			assert.InDelta(t, tt.wantVX, a.VX, 1e-9)
			assert.InDelta(t, tt.wantVY, a.VY, 1e-9)
			assert.Equal(t, 0.5, a.Props.GravityScale)
			assert.Nil(t, a.Brain)
			assert.Same(t, shooter, a.Projectile.Origin)
		})
	}
}

func TestNewArrowDirected(t *testing.T) {
	shooter := NewBody("baleog", KindFriendly, 0, 0, 16, 16, DefaultProps())

	a := NewArrowDirected(shooter, 4, 4, 8, 108, 200, 0)
	assert.InDelta(t, 0.0, a.VX, 1e-9)
	assert.InDelta(t, 200.0, a.VY, 1e-9)
	assert.InDelta(t, math.Pi/2, a.Rotation(), 1e-9)

	back := NewArrowDirected(shooter, 4, 4, -92, 8, 200, 0)
	assert.Equal(t, -1, back.Facing)
}

package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/shine/internal/domain/entity"
)

func newTestBody(name string, kind entity.Kind) *entity.Body {
	return entity.NewBody(name, kind, 0, 0, 16, 16, entity.DefaultProps())
}

func TestNewWorld(t *testing.T) {
	w := NewWorld()

	assert.NotNil(t, w)
	assert.Equal(t, EntityID(1), w.nextID)
	assert.Empty(t, w.Bodies())
}

func TestNewEntity(t *testing.T) {
	w := NewWorld()

	id1 := w.NewEntity()
	id2 := w.NewEntity()
	id3 := w.NewEntity()

	assert.Equal(t, EntityID(1), id1)
	assert.Equal(t, EntityID(2), id2)
	assert.Equal(t, EntityID(3), id3)
	assert.Equal(t, EntityID(4), w.nextID)
}

func TestEntityIDNeverRecycled(t *testing.T) {
	w := NewWorld()

	id1 := w.Spawn(newTestBody("erik", entity.KindFriendly))
	w.DestroyEntity(id1)

	id2 := w.Spawn(newTestBody("olaf", entity.KindFriendly))
	assert.NotEqual(t, id1, id2, "Entity IDs should never be recycled")
	assert.Equal(t, EntityID(2), id2)
}

func TestSpawnKeepsOrder(t *testing.T) {
	w := NewWorld()
	names := []string{"erik", "baleog", "olaf", "rock"}
	for _, n := range names {
		w.Spawn(newTestBody(n, entity.KindFriendly))
	}

	w.DestroyEntity(w.FindByName("baleog").ID)

	var got []string
	for _, b := range w.Bodies() {
		got = append(got, b.Name)
	}
	assert.Equal(t, []string{"erik", "olaf", "rock"}, got)
}

func TestDestroyEntity(t *testing.T) {
	w := NewWorld()
	b := newTestBody("erik", entity.KindFriendly)
	id := w.Spawn(b)
	require.True(t, w.Exists(id))
	assert.Same(t, b, w.Body(id))

	var destroyed []string
	w.OnDestroy(func(b *entity.Body) { destroyed = append(destroyed, b.Name) })

	w.DestroyEntity(id)
	assert.False(t, w.Exists(id))
	assert.Nil(t, w.Body(id))
	assert.Equal(t, []string{"erik"}, destroyed)

	// destroying twice is a no-op
	w.DestroyEntity(id)
	assert.Len(t, destroyed, 1)
}

func TestCount(t *testing.T) {
	w := NewWorld()
	w.Spawn(newTestBody("erik", entity.KindFriendly))
	w.Spawn(newTestBody("guard", entity.KindEnemy))
	w.Spawn(newTestBody("rock", entity.KindDefault))

	assert.Equal(t, 2, w.Count(entity.KindCharacter))
	assert.Equal(t, 1, w.Count(entity.KindDefault))
	assert.Equal(t, 0, w.Count(entity.KindParticle))
}

func TestSweep(t *testing.T) {
	w := NewWorld()
	shooter := newTestBody("baleog", entity.KindFriendly)
	w.Spawn(shooter)

	a1 := entity.NewArrow(shooter, 12, 4, 300, 0, 0)
	a2 := entity.NewArrow(shooter, 12, 4, 300, 0, 0)
	w.Spawn(a1)
	w.Spawn(a2)
	a1.Projectile.Spent = true

	assert.Equal(t, 1, w.Sweep())
	assert.False(t, w.Exists(a1.ID))
	assert.True(t, w.Exists(a2.ID))
	assert.Equal(t, 0, w.Sweep())
}

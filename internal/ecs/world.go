package ecs

import "github.com/younwookim/shine/internal/domain/entity"

// EntityID is a unique identifier for an entity (never recycled)
type EntityID = entity.EntityID

// World owns every body of a level and the next entity ID.
// Bodies are kept in spawn order so every pass over them is deterministic.
type World struct {
	nextID EntityID

	bodies map[EntityID]*entity.Body
	order  []EntityID

	onDestroy []func(b *entity.Body)
}

// NewWorld creates a new empty world
func NewWorld() *World {
	return &World{
		nextID: 1, // 0 is "nil"
		bodies: make(map[EntityID]*entity.Body),
	}
}

// NewEntity returns a new unique entity ID
func (w *World) NewEntity() EntityID {
	id := w.nextID
	w.nextID++
	return id
}

// Spawn registers a body under a fresh ID and returns the ID
func (w *World) Spawn(b *entity.Body) EntityID {
	id := w.NewEntity()
	b.ID = id
	w.bodies[id] = b
	w.order = append(w.order, id)
	return id
}

// OnDestroy registers a hook run for every destroyed body, in registration order
func (w *World) OnDestroy(fn func(b *entity.Body)) {
	w.onDestroy = append(w.onDestroy, fn)
}

// DestroyEntity removes a body. Destroy hooks run before it disappears.
func (w *World) DestroyEntity(id EntityID) {
	b, ok := w.bodies[id]
	if !ok {
		return
	}
	for _, fn := range w.onDestroy {
		fn(b)
	}
	delete(w.bodies, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// Exists checks if an entity is registered
func (w *World) Exists(id EntityID) bool {
	_, ok := w.bodies[id]
	return ok
}

// Body returns the body registered under id, or nil
func (w *World) Body(id EntityID) *entity.Body {
	return w.bodies[id]
}

// Bodies returns all bodies in spawn order
func (w *World) Bodies() []*entity.Body {
	out := make([]*entity.Body, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.bodies[id])
	}
	return out
}

// FindByName returns the first body with the given name
func (w *World) FindByName(name string) *entity.Body {
	for _, id := range w.order {
		if b := w.bodies[id]; b.Name == name {
			return b
		}
	}
	return nil
}

// Count returns the number of bodies of any of the given kinds
func (w *World) Count(kind entity.Kind) int {
	n := 0
	for _, b := range w.bodies {
		if b.Kind.Has(kind) {
			n++
		}
	}
	return n
}

// Sweep destroys every spent projectile and returns how many were removed
func (w *World) Sweep() int {
	var spent []EntityID
	for _, id := range w.order {
		if p := w.bodies[id].Projectile; p != nil && p.Spent {
			spent = append(spent, id)
		}
	}
	for _, id := range spent {
		w.DestroyEntity(id)
	}
	return len(spent)
}

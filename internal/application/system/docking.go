package system

import "github.com/younwookim/shine/internal/domain/entity"

// Dockable reports whether m can support a rider: default scenery and
// ladder top caps can, characters and particles cannot.
func Dockable(m entity.Mount) bool {
	return m != nil && m.MountKind().Has(entity.KindDefault|entity.KindLadder)
}

// DockRegistry tracks what every body stands on and who rides on whom
type DockRegistry struct {
	riders map[*entity.Body][]*entity.Body

	// OnMove runs after Move displaced a body, riders included
	OnMove func(b *entity.Body)
}

// NewDockRegistry creates an empty registry
func NewDockRegistry() *DockRegistry {
	return &DockRegistry{riders: make(map[*entity.Body][]*entity.Body)}
}

// Dock makes m the current mount of b. Mounts that carry riders also
// record b so it moves along with them.
func (r *DockRegistry) Dock(b *entity.Body, m entity.Mount) bool {
	if !Dockable(m) || m == entity.Mount(b) {
		return false
	}
	if cur := b.Ground[0]; cur != nil && cur != m {
		r.Undock(b)
	}
	b.Ground[0] = m

	mb, ok := m.(*entity.Body)
	if !ok || !mb.Props.CarriesRiders {
		return true
	}
	for _, rider := range r.riders[mb] {
		if rider == b {
			return true
		}
	}
	r.riders[mb] = append(r.riders[mb], b)
	return true
}

// Undock clears b's current mount and leaves the mount's rider set
func (r *DockRegistry) Undock(b *entity.Body) {
	m := b.Ground[0]
	b.Ground[0] = nil

	mb, ok := m.(*entity.Body)
	if !ok {
		return
	}
	r.removeRider(mb, b)
}

func (r *DockRegistry) removeRider(mount, b *entity.Body) {
	list := r.riders[mount]
	for i, rider := range list {
		if rider == b {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(r.riders, mount)
		return
	}
	r.riders[mount] = list
}

// Riders returns the bodies currently carried by m
func (r *DockRegistry) Riders(m *entity.Body) []*entity.Body {
	list := r.riders[m]
	out := make([]*entity.Body, len(list))
	copy(out, list)
	return out
}

// Move displaces b by (dx, dy) and carries its riders, recursively
func (r *DockRegistry) Move(b *entity.Body, dx, dy float64) {
	if len(r.riders) == 0 {
		r.displace(b, dx, dy)
		return
	}
	r.move(b, dx, dy, make(map[*entity.Body]bool))
}

func (r *DockRegistry) move(b *entity.Body, dx, dy float64, seen map[*entity.Body]bool) {
	if seen[b] {
		return
	}
	seen[b] = true
	r.displace(b, dx, dy)

	for _, rider := range r.Riders(b) {
		r.move(rider, dx, dy, seen)
	}
}

func (r *DockRegistry) displace(b *entity.Body, dx, dy float64) {
	b.X += dx
	b.Y += dy
	if r.OnMove != nil {
		r.OnMove(b)
	}
}

// Forget drops every relation of b, used when b leaves the simulation
func (r *DockRegistry) Forget(b *entity.Body) {
	r.Undock(b)
	for _, rider := range r.riders[b] {
		if rider.Ground[0] == entity.Mount(b) {
			rider.Ground[0] = nil
		}
		if rider.Ground[1] == entity.Mount(b) {
			rider.Ground[1] = nil
		}
	}
	delete(r.riders, b)
}

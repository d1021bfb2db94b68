package system

import (
	"github.com/younwookim/shine/internal/domain/entity"
	"github.com/younwookim/shine/internal/domain/geom"
)

// TileHit identifies the tile side of a collision
type TileHit struct {
	Layer    *entity.TileLayer
	Col, Row int
	Props    entity.TileProps
	Rect     geom.Rect
}

// Collision is the outcome of one test between a moving body A and either
// another body B or a tile. It is a plain value: every test returns its own.
type Collision struct {
	A    *entity.Body
	B    *entity.Body // nil for tile collisions
	Tile *TileHit     // nil for body collisions

	geom.Contact

	// Slope annotations, set by the tile classifier
	Slope int     // signed slope code, 0 unless accepted as a ramp contact
	XIn   float64 // horizontal position inside the ramp tile, measured from its low end

	// Impact is the mover's speed along the contact axis before resolution
	Impact float64
}

// Other returns what A collided with as a mount candidate
func (c *Collision) Other() entity.Mount {
	if c.B != nil {
		return c.B
	}
	if c.Tile != nil {
		return c.Tile.Layer
	}
	return nil
}

// OtherKind returns the kind of the other side. Tiles count as default scenery.
func (c *Collision) OtherKind() entity.Kind {
	if c.B != nil {
		return c.B.Kind
	}
	return entity.KindDefault
}

// TileProps returns the tile's properties, zero for body collisions
func (c *Collision) TileProps() entity.TileProps {
	if c.Tile == nil {
		return entity.TileProps{}
	}
	return c.Tile.Props
}

// Collide tests body a against body b
func Collide(a, b *entity.Body) (Collision, bool) {
	if a == b {
		return Collision{}, false
	}
	contact, ok := geom.Collide(a.Rect(), b.Rect())
	if !ok {
		return Collision{}, false
	}
	return Collision{A: a, B: b, Contact: contact}, true
}

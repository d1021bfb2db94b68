package system

import (
	"math"

	"github.com/younwookim/shine/internal/domain/entity"
	"github.com/younwookim/shine/internal/domain/geom"
)

// DefaultLookahead is how many tiles past the overlapped span a scan looks
const DefaultLookahead = 5

// ClassifyFunc inspects a raw tile collision and may annotate it.
// Returning false rejects the collision and the scan moves on.
type ClassifyFunc func(c *Collision) bool

// TileLayerCollide finds the first accepted collision between b and the
// layer's tiles, walking along the direction of travel. Exactly one of vx
// and vy should be nonzero; with both zero only the overlapped span is
// scanned.
func TileLayerCollide(layer *entity.TileLayer, b *entity.Body, vx, vy float64, classify ClassifyFunc) (Collision, bool) {
	return scanTiles(layer, b, vx, vy, DefaultLookahead, classify)
}

func scanTiles(layer *entity.TileLayer, b *entity.Body, vx, vy float64, lookahead int, classify ClassifyFunc) (Collision, bool) {
	if layer == nil || layer.Source == nil || layer.TileW <= 0 || layer.TileH <= 0 {
		return Collision{}, false
	}
	r := b.Rect()
	if r.Empty() {
		return Collision{}, false
	}

	dirX, dirY := signum(vx), signum(vy)

	col0, col1 := tileSpan(r.X-layer.OffsetX, r.Right()-layer.OffsetX, layer.TileW)
	row0, row1 := tileSpan(r.Y-layer.OffsetY, r.Bottom()-layer.OffsetY, layer.TileH)
	col0, col1 = extend(col0, col1, dirX, lookahead)
	row0, row1 = extend(row0, row1, dirY, lookahead)

	// The axis of travel is the outer loop so the nearest line of tiles
	// is tested first.
	if dirY != 0 {
		rs, re, rstep := walk(row0, row1, dirY)
		cs, ce, cstep := walk(col0, col1, dirX)
		for row := rs; row != re; row += rstep {
			for col := cs; col != ce; col += cstep {
				if c, ok := testTile(layer, b, r, col, row, classify); ok {
					againstTravel(&c, dirX, dirY)
					return c, true
				}
			}
		}
		return Collision{}, false
	}

	cs, ce, cstep := walk(col0, col1, dirX)
	rs, re, rstep := walk(row0, row1, dirY)
	for col := cs; col != ce; col += cstep {
		for row := rs; row != re; row += rstep {
			if c, ok := testTile(layer, b, r, col, row, classify); ok {
				againstTravel(&c, dirX, dirY)
				return c, true
			}
		}
	}
	return Collision{}, false
}

func testTile(layer *entity.TileLayer, b *entity.Body, r geom.Rect, col, row int, classify ClassifyFunc) (Collision, bool) {
	props, ok := layer.Source.TileProps(col, row)
	if !ok || !props.Colliding() {
		return Collision{}, false
	}
	tr := layer.TileRect(col, row)
	contact, ok := geom.Collide(r, tr)
	if !ok {
		return Collision{}, false
	}

	c := Collision{
		A:       b,
		Tile:    &TileHit{Layer: layer, Col: col, Row: row, Props: props, Rect: tr},
		Contact: contact,
	}
	if props.Special() || classify == nil {
		return c, true
	}
	if !classify(&c) {
		return Collision{}, false
	}
	return c, true
}

// againstTravel makes a solid tile contact separate the mover back the way
// it came. A sub-step can carry a body past a tile's middle, where the
// shortest way out is through the far side.
func againstTravel(c *Collision, dirX, dirY int) {
	if c.Slope != 0 || c.TileProps().Special() {
		return
	}
	a, t := c.A, c.Tile.Rect
	switch {
	case dirX != 0 && c.NormalX*float64(dirX) > 0:
		if dirX > 0 {
			setContact(c, -1, 0, a.X+a.W-t.X)
		} else {
			setContact(c, 1, 0, t.Right()-a.X)
		}
	case dirY != 0 && c.NormalY*float64(dirY) > 0:
		if dirY > 0 {
			setContact(c, 0, -1, a.Bottom()-t.Y)
		} else {
			setContact(c, 0, 1, t.Bottom()-a.Y)
		}
	}
}

func setContact(c *Collision, nx, ny, mag float64) {
	c.Contact = geom.Contact{
		NormalX:   nx,
		NormalY:   ny,
		Distance:  -mag,
		Magnitude: mag,
		SeparateX: -mag * nx,
		SeparateY: -mag * ny,
	}
}

// tileSpan returns the first and last cell index covered by [lo, hi)
func tileSpan(lo, hi, size float64) (int, int) {
	first := int(math.Floor(lo / size))
	last := int(math.Ceil(hi/size)) - 1
	if last < first {
		last = first
	}
	return first, last
}

func extend(lo, hi, dir, n int) (int, int) {
	switch {
	case dir > 0:
		hi += n
	case dir < 0:
		lo -= n
	}
	return lo, hi
}

// walk returns loop bounds visiting lo..hi, backwards when dir < 0
func walk(lo, hi, dir int) (start, end, step int) {
	if dir < 0 {
		return hi, lo - 1, -1
	}
	return lo, hi + 1, 1
}

func signum(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// SlopeSurfaceY returns the y of a ramp surface inside tile rect at
// horizontal position xin, measured from the ramp's low end.
func SlopeSurfaceY(tile geom.Rect, p entity.TileProps, xin float64) float64 {
	steep := float64(p.Steepness())
	if steep == 0 {
		return tile.Y
	}
	return tile.Bottom() - tile.H*float64(p.Offset-1)/steep - xin*(tile.H/tile.W)/steep
}

// classifyTile accepts plain tiles as they are and decides how ramp tiles register.
//
// A ramp tile defers to its neighbor when the mover's center lies in the
// neighboring column and that column continues the ramp in the same
// direction. At the end of a ramp the position inside the tile is clamped,
// so flat ground and peaks continue at the ramp's edge height. A mover
// whose center is below the surface treats the tile as a plain block.
// A falling mover only collides with the part under the surface.
func classifyTile(c *Collision) bool {
	t := c.Tile
	p := t.Props
	if p.Slope == 0 {
		return true
	}
	b := c.A
	sign := p.SlopeSign()
	cx := b.CenterX()

	if cx < t.Rect.X || cx >= t.Rect.Right() {
		ncol := t.Col + 1
		if cx < t.Rect.X {
			ncol = t.Col - 1
		}
		if continuesRamp(t.Layer, ncol, t.Row, sign) {
			return false
		}
	}

	xin := cx - t.Rect.X
	if sign < 0 {
		xin = t.Rect.Right() - cx
	}
	xin = math.Max(0, math.Min(xin, t.Rect.W))

	surface := SlopeSurfaceY(t.Rect, p, xin)
	depth := b.Bottom() - surface
	if depth >= b.H/2 {
		return true
	}

	c.Slope = p.Slope
	c.XIn = xin
	if b.WasMounted() {
		return true
	}
	if depth <= 0 {
		return false
	}

	// Land on the surface rather than on the tile's top edge
	c.Contact = geom.Contact{
		NormalX:   0,
		NormalY:   -1,
		Distance:  -depth,
		Magnitude: depth,
		SeparateX: 0,
		SeparateY: depth,
	}
	return true
}

func continuesRamp(layer *entity.TileLayer, col, row, sign int) bool {
	for dr := -1; dr <= 1; dr++ {
		np, ok := layer.Source.TileProps(col, row+dr)
		if ok && np.Colliding() && np.SlopeSign() == sign {
			return true
		}
	}
	return false
}

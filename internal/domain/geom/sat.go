// Package geom implements the separating axis test used for every
// rectangle-vs-rectangle overlap check in the physics core.
//
// Rectangles are axis aligned and never rotated. A test is a pure
// function of the two rectangles: results are returned by value, so
// concurrent callers never share scratch state.
package geom

import "math"

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y float64
	W, H float64
}

// Right returns the x coordinate of the right edge
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge
func (r Rect) Bottom() float64 { return r.Y + r.H }

// CenterX returns the horizontal center
func (r Rect) CenterX() float64 { return r.X + r.W/2 }

// CenterY returns the vertical center
func (r Rect) CenterY() float64 { return r.Y + r.H/2 }

// Empty reports whether the rectangle has no area
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Overlaps is the cheap bounding-box test. Edge-touching rectangles do
// not overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Contact is the outcome of one separating axis test.
//
// Normal is a unit vector pointing the way the first rectangle has to
// travel to leave the second one. Distance is the signed overlap along
// Normal and is never positive; Magnitude is its absolute value.
// Separate = Normal * Distance: subtracting it from the first rectangle's
// position (or adding it to the second's) leaves the pair just touching.
type Contact struct {
	NormalX, NormalY     float64
	Distance             float64
	Magnitude            float64
	SeparateX, SeparateY float64
}

type vec struct{ x, y float64 }

// quad holds the rectangle's corners relative to its center, ordered
// top-left, top-right, bottom-right, bottom-left.
type quad [4]vec

func corners(r Rect) quad {
	hw, hh := r.W/2, r.H/2
	return quad{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
}

// edgeOrder walks the top and bottom edges before the left and right
// ones, so equal overlaps always resolve vertically. Both argument
// orders of Collide see the same order, which keeps the test symmetric.
var edgeOrder = [4][2]int{{0, 1}, {2, 3}, {3, 0}, {1, 2}}

func edgeNormal(q *quad, e [2]int) vec {
	p1, p2 := q[e[0]], q[e[1]]
	n := vec{-(p2.y - p1.y), p2.x - p1.x}
	if l := math.Hypot(n.x, n.y); l > 0 {
		n.x /= l
		n.y /= l
	}
	return n
}

func project(q *quad, n vec) (lo, hi float64) {
	lo = q[0].x*n.x + q[0].y*n.y
	hi = lo
	for i := 1; i < len(q); i++ {
		d := q[i].x*n.x + q[i].y*n.y
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	return lo, hi
}

// pass tests the edge normals of fixed against both point sets. It
// returns false as soon as one axis separates the shapes.
func pass(fixed, other Rect, flip bool) (Contact, bool) {
	p1, p2 := corners(fixed), corners(other)
	off := vec{fixed.CenterX() - other.CenterX(), fixed.CenterY() - other.CenterY()}

	var c Contact
	shortest := math.Inf(1)
	for _, e := range edgeOrder {
		n := edgeNormal(&p1, e)
		min1, max1 := project(&p1, n)
		min2, max2 := project(&p2, n)
		o := off.x*n.x + off.y*n.y
		min1 += o
		max1 += o

		if min1-max2 > 0 || min2-max1 > 0 {
			return Contact{}, false
		}

		dist := -(max2 - min1)
		if flip {
			dist = -dist
		}
		if mag := math.Abs(dist); mag < shortest {
			shortest = mag
			c.Distance = dist
			c.Magnitude = mag
			c.NormalX, c.NormalY = n.x, n.y
			if c.Distance > 0 {
				c.Distance = -c.Distance
				c.NormalX, c.NormalY = -c.NormalX, -c.NormalY
			}
		}
	}
	return c, true
}

// Collide runs the separating axis test for a against b. The second
// return value is false when the rectangles are apart, merely touch, or
// either one has no area.
func Collide(a, b Rect) (Contact, bool) {
	if a.Empty() || b.Empty() || !a.Overlaps(b) {
		return Contact{}, false
	}

	r1, ok := pass(a, b, false)
	if !ok {
		return Contact{}, false
	}
	r2, ok := pass(b, a, true)
	if !ok {
		return Contact{}, false
	}

	c := r1
	if r2.Magnitude < r1.Magnitude {
		c = r2
	}
	if c.Magnitude == 0 {
		return Contact{}, false
	}
	c.SeparateX = c.Distance * c.NormalX
	c.SeparateY = c.Distance * c.NormalY
	return c, true
}

package entity

import "math"

// Projectile marks a body as a particle shot by Origin
type Projectile struct {
	Origin *Body
	Spent  bool
	Target *Body // what the projectile hit, nil while flying
	OnHit  func(target *Body)
}

// Strike resolves the impact on target exactly once. It returns false for
// the shooter itself and for projectiles that already hit something.
func (p *Projectile) Strike(target *Body) bool {
	if p.Spent || target == p.Origin {
		return false
	}
	p.Spent = true
	p.Target = target
	if p.OnHit != nil {
		p.OnHit(target)
	}
	return true
}

// ArrowProps returns the tuning of a ballistic particle
func ArrowProps(speed, gravityScale float64) Props {
	return Props{
		MaxSpeed:     speed,
		GravityScale: gravityScale,
	}
}

// NewArrow creates an arrow particle leaving origin's front edge at
// launchAngleDeg above the horizontal, in the direction origin faces.
func NewArrow(origin *Body, w, h, speed, launchAngleDeg, gravityScale float64) *Body {
	angleRad := launchAngleDeg * math.Pi / 180
	dir := float64(origin.Facing)
	if dir == 0 {
		dir = 1
	}

	x := origin.X + origin.W
	if dir < 0 {
		x = origin.X - w
	}
	y := origin.Y + origin.H/2 - h/2

	b := NewBody(origin.Name+".arrow", KindParticle, x, y, w, h, ArrowProps(speed, gravityScale))
	b.Mask = KindDefault | KindCharacter
	b.Facing = int(dir)
	b.VX = dir * speed * math.Cos(angleRad)
	b.VY = -speed * math.Sin(angleRad) // up is negative
	b.Projectile = &Projectile{Origin: origin}
	return b
}

// NewArrowDirected creates an arrow particle aimed at (targetX, targetY)
// from origin's center.
func NewArrowDirected(origin *Body, w, h, targetX, targetY, speed, gravityScale float64) *Body {
	cx := origin.CenterX()
	cy := origin.Y + origin.H/2
	dx := targetX - cx
	dy := targetY - cy
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 1 {
		dist = 1
	}

	b := NewBody(origin.Name+".arrow", KindParticle, cx-w/2, cy-h/2, w, h, ArrowProps(speed, gravityScale))
	b.Mask = KindDefault | KindCharacter
	b.VX = (dx / dist) * speed
	b.VY = (dy / dist) * speed
	b.Facing = 1
	if b.VX < 0 {
		b.Facing = -1
	}
	b.Projectile = &Projectile{Origin: origin}
	return b
}

// Rotation returns the flight angle of a particle
func (b *Body) Rotation() float64 {
	return math.Atan2(b.VY, b.VX)
}

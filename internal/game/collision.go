package game

import "math"

const (
	wallVelocityDamp = 0.6  // velocity multiplier when still driving into a wall
	circleShareFirst = 0.65 // share of overlap absorbed by the first circle
	circleShareOther = 0.35 // share absorbed by the second
)

// Body is the kinematic part of an agent: a circle with a velocity.
type Body struct {
	X, Y   float64
	VX, VY float64
	Radius float64
}

// ResolveCircleVsAABB returns the push that moves a circle out of a box.
// ok is false when they do not overlap, or when the circle centre lies
// exactly on the nearest box point (no usable direction).
func ResolveCircleVsAABB(cx, cy, cr, ax, ay, aw, ah float64) (mx, my float64, ok bool) {
	nx := clampFloat(cx, ax, ax+aw)
	ny := clampFloat(cy, ay, ay+ah)
	dx := cx - nx
	dy := cy - ny
	d2 := dx*dx + dy*dy
	if d2 >= cr*cr || d2 == 0 {
		return 0, 0, false
	}
	d := math.Sqrt(d2)
	push := cr - d
	return dx / d * push, dy / d * push, true
}

// ResolveCircleVsCircle separates two overlapping bodies along the axis
// between their centres. a takes 65% of the correction and b 35%.
// Coincident or non-overlapping pairs are left alone.
func ResolveCircleVsCircle(a, b *Body) {
	dx := a.X - b.X
	dy := a.Y - b.Y
	d := math.Hypot(dx, dy)
	minD := a.Radius + b.Radius
	if d == 0 || d >= minD {
		return
	}
	push := minD - d
	nx, ny := dx/d, dy/d
	a.X += nx * push * circleShareFirst
	a.Y += ny * push * circleShareFirst
	b.X -= nx * push * circleShareOther
	b.Y -= ny * push * circleShareOther
}

// ResolveBodyVsWalls pushes b out of every wall tile its bounds could
// touch, scanning one extra tile on each side. Tiles outside the grid
// count as walls. Each push is applied once; returns the number applied.
func ResolveBodyVsWalls(b *Body, g *TileGrid) int {
	ts := g.TileSize
	minX := int(math.Floor((b.X-b.Radius)/ts)) - 1
	maxX := int(math.Floor((b.X+b.Radius)/ts)) + 1
	minY := int(math.Floor((b.Y-b.Radius)/ts)) - 1
	maxY := int(math.Floor((b.Y+b.Radius)/ts)) + 1

	pushes := 0
	for ty := minY; ty <= maxY; ty++ {
		for tx := minX; tx <= maxX; tx++ {
			if !g.IsWall(tx, ty) {
				continue
			}
			mx, my, ok := ResolveCircleVsAABB(b.X, b.Y, b.Radius, float64(tx)*ts, float64(ty)*ts, ts, ts)
			if !ok {
				continue
			}
			b.X += mx
			b.Y += my
			if b.VX*mx+b.VY*my > 0 {
				b.VX *= wallVelocityDamp
				b.VY *= wallVelocityDamp
			}
			pushes++
		}
	}
	return pushes
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

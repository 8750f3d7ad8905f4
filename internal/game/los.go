package game

import "math"

// HasLineOfSight samples the segment (ax,ay)->(bx,by) every step world
// units, excluding the start point, and reports false if any sample lands
// on a wall tile. Degenerate segments are clear.
func HasLineOfSight(g *TileGrid, ax, ay, bx, by, step float64) bool {
	dx := bx - ax
	dy := by - ay
	dist := math.Hypot(dx, dy)
	if dist <= 1e-6 {
		return true
	}
	if step <= 0 {
		step = g.TileSize / 6
	}
	steps := int(math.Ceil(dist / step))
	sx := dx / float64(steps)
	sy := dy / float64(steps)
	x, y := ax, ay
	for i := 0; i < steps; i++ {
		x += sx
		y += sy
		if g.IsWallAt(x, y) {
			return false
		}
	}
	return true
}

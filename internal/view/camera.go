package view

import (
	"math"

	"github.com/Garsondee/Dungeon-Sense/internal/game"
)

// camFollowRate is the fraction of the gap to the target left after one
// second of following.
const camFollowRate = 0.002

// camera maps world space onto the playfield viewport. (x,y) is the world
// point drawn at the viewport centre.
type camera struct {
	x, y         float64
	viewW, viewH float64
}

// snap centres the camera on (tx,ty) immediately.
func (c *camera) snap(tx, ty, worldW, worldH float64) {
	c.x, c.y = tx, ty
	c.clamp(worldW, worldH)
}

// follow eases the camera toward (tx,ty), frame-rate independent.
func (c *camera) follow(tx, ty, dt, worldW, worldH float64) {
	k := 1 - math.Pow(camFollowRate, dt)
	c.x += (tx - c.x) * k
	c.y += (ty - c.y) * k
	c.clamp(worldW, worldH)
}

// clamp keeps the viewport inside the world, centring an axis the world
// is too small to fill.
func (c *camera) clamp(worldW, worldH float64) {
	c.x = clampAxis(c.x, c.viewW, worldW)
	c.y = clampAxis(c.y, c.viewH, worldH)
}

func clampAxis(v, view, world float64) float64 {
	if world <= view {
		return world / 2
	}
	return math.Max(view/2, math.Min(world-view/2, v))
}

func (c *camera) toScreen(wx, wy float64) (float32, float32) {
	return float32(wx - c.x + c.viewW/2), float32(wy - c.y + c.viewH/2)
}

func (c *camera) toWorld(sx, sy int) (float64, float64) {
	return float64(sx) + c.x - c.viewW/2, float64(sy) + c.y - c.viewH/2
}

// visibleTiles returns the inclusive tile range under the viewport.
func (c *camera) visibleTiles(g *game.TileGrid) (c0, r0, c1, r1 int) {
	x0, y0 := c.toWorld(0, 0)
	x1, y1 := c.toWorld(int(c.viewW), int(c.viewH))
	c0, r0 = g.WorldToTile(x0, y0)
	c1, r1 = g.WorldToTile(x1, y1)
	c0 = max(c0, 0)
	r0 = max(r0, 0)
	c1 = min(c1, g.Cols-1)
	r1 = min(r1, g.Rows-1)
	return c0, r0, c1, r1
}

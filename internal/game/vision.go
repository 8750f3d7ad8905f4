package game

import "math"

// VisibilityField holds per-tile fog state for one level: the visible
// set from the latest ray cast, the monotonic explored set, and the
// overlay alpha that eases toward its target every tick.
type VisibilityField struct {
	grid     *TileGrid
	cfg      FogConfig
	visible  []bool
	explored []bool
	alpha    []float64

	// revealed lists tile indices that became explored during the last Compute.
	revealed []int
}

// NewVisibilityField creates a field with nothing visible or explored and
// every overlay at the unseen alpha.
func NewVisibilityField(grid *TileGrid, cfg FogConfig) *VisibilityField {
	n := grid.Cols * grid.Rows
	vf := &VisibilityField{
		grid:     grid,
		cfg:      cfg,
		visible:  make([]bool, n),
		explored: make([]bool, n),
		alpha:    make([]float64, n),
	}
	for i := range vf.alpha {
		vf.alpha[i] = cfg.UnseenAlpha
	}
	return vf
}

// mark flags a tile visible and explored, recording first exploration.
func (vf *VisibilityField) mark(i int) {
	vf.visible[i] = true
	if !vf.explored[i] {
		vf.explored[i] = true
		vf.revealed = append(vf.revealed, i)
	}
}

// Compute recasts the visible set from a world-space origin. The origin
// tile is always visible. Each ray stops after marking the first wall it
// steps into, so walls show as silhouettes and nothing behind them leaks.
func (vf *VisibilityField) Compute(ox, oy float64) {
	for i := range vf.visible {
		vf.visible[i] = false
	}
	vf.revealed = vf.revealed[:0]

	g := vf.grid
	if tx, ty := g.WorldToTile(ox, oy); g.inBounds(tx, ty) {
		vf.mark(g.index(tx, ty))
	}

	step := vf.cfg.step(g.TileSize)
	rays := vf.cfg.Rays
	for r := 0; r < rays; r++ {
		a := float64(r) / float64(rays) * 2 * math.Pi
		c, s := math.Cos(a), math.Sin(a)
		x, y := ox, oy
		for d := 0.0; d < vf.cfg.Dist; d += step {
			x += c * step
			y += s * step
			tx, ty := g.WorldToTile(x, y)
			if !g.inBounds(tx, ty) {
				break
			}
			vf.mark(g.index(tx, ty))
			if g.BlocksLight(tx, ty) {
				break
			}
		}
	}
}

// Revealed returns the tiles first explored by the last Compute, as
// (col,row) pairs. The slice is rebuilt on every call.
func (vf *VisibilityField) Revealed() [][2]int {
	out := make([][2]int, len(vf.revealed))
	for k, i := range vf.revealed {
		out[k] = [2]int{i % vf.grid.Cols, i / vf.grid.Cols}
	}
	return out
}

// IsVisible reports whether (col,row) was hit by the last ray cast.
// Out of bounds is never visible.
func (vf *VisibilityField) IsVisible(col, row int) bool {
	if !vf.grid.inBounds(col, row) {
		return false
	}
	return vf.visible[vf.grid.index(col, row)]
}

// IsVisibleAt is IsVisible for a world-space point.
func (vf *VisibilityField) IsVisibleAt(x, y float64) bool {
	return vf.IsVisible(vf.grid.WorldToTile(x, y))
}

// IsExplored reports whether (col,row) has ever been visible.
func (vf *VisibilityField) IsExplored(col, row int) bool {
	if !vf.grid.inBounds(col, row) {
		return false
	}
	return vf.explored[vf.grid.index(col, row)]
}

// Explore marks a single tile explored without making it visible.
func (vf *VisibilityField) Explore(col, row int) {
	if vf.grid.inBounds(col, row) {
		vf.explored[vf.grid.index(col, row)] = true
	}
}

// ExploredCount returns how many tiles have been explored.
func (vf *VisibilityField) ExploredCount() int {
	n := 0
	for _, e := range vf.explored {
		if e {
			n++
		}
	}
	return n
}

// RevealAll marks every tile explored.
func (vf *VisibilityField) RevealAll() {
	for i := range vf.explored {
		vf.explored[i] = true
	}
}

// Alpha returns the current overlay alpha of (col,row). Out of bounds is
// fully hidden.
func (vf *VisibilityField) Alpha(col, row int) float64 {
	if !vf.grid.inBounds(col, row) {
		return 1
	}
	return vf.alpha[vf.grid.index(col, row)]
}

// targetAlpha is the overlay alpha tile i is easing toward.
func (vf *VisibilityField) targetAlpha(i int) float64 {
	switch {
	case vf.visible[i]:
		return 0
	case !vf.explored[i]:
		return vf.cfg.UnseenAlpha
	case vf.cfg.MemoryMode:
		return vf.cfg.MemoryAlpha
	default:
		return 0
	}
}

// TargetAlpha returns the target overlay alpha of (col,row).
func (vf *VisibilityField) TargetAlpha(col, row int) float64 {
	if !vf.grid.inBounds(col, row) {
		return 1
	}
	return vf.targetAlpha(vf.grid.index(col, row))
}

// UpdateFade moves every overlay toward its target. Tiles getting more
// visible snap at once; tiles fading back advance by
// (dt_ms / fadeMs) * target per call, never past the target.
func (vf *VisibilityField) UpdateFade(dt float64) {
	fadeMs := math.Max(1, vf.cfg.FadeMs)
	dtMs := dt * 1000
	for i := range vf.alpha {
		target := vf.targetAlpha(i)
		cur := vf.alpha[i]
		if !vf.cfg.FadeEnabled || target <= cur {
			vf.alpha[i] = target
			continue
		}
		vf.alpha[i] = math.Min(target, cur+(dtMs/fadeMs)*target)
	}
}

// HeadingTo returns the angle in radians from (ox,oy) toward (tx,ty).
func HeadingTo(ox, oy, tx, ty float64) float64 {
	return math.Atan2(ty-oy, tx-ox)
}

// normalizeAngle wraps an angle to [-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

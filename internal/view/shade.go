package view

import (
	"image/color"

	"github.com/Garsondee/Dungeon-Sense/internal/game"
	"github.com/ojrac/opensimplex-go"
)

const shadeScale = 0.21 // noise frequency per tile

// shadeMap holds a per-tile noise value in [0,1) so floors and walls are
// not flat colour. It is cosmetic and seeded from the level seed.
type shadeMap struct {
	cols int
	vals []float64
}

func newShadeMap(g *game.TileGrid, seed int64) shadeMap {
	noise := opensimplex.NewNormalized(seed)
	s := shadeMap{cols: g.Cols, vals: make([]float64, g.Cols*g.Rows)}
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			s.vals[r*g.Cols+c] = noise.Eval2(float64(c)*shadeScale, float64(r)*shadeScale)
		}
	}
	return s
}

func (s shadeMap) at(c, r int) float64 {
	i := r*s.cols + c
	if c < 0 || c >= s.cols || i < 0 || i >= len(s.vals) {
		return 0.5
	}
	return s.vals[i]
}

// tint brightens or darkens base by up to spread levels around v=0.5.
func tint(base color.RGBA, v float64, spread float64) color.RGBA {
	d := (v - 0.5) * 2 * spread
	return color.RGBA{R: addClamp(base.R, d), G: addClamp(base.G, d), B: addClamp(base.B, d), A: base.A}
}

func addClamp(c uint8, d float64) uint8 {
	v := float64(c) + d
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

package game

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Tile identifies the content of one grid cell.
type Tile uint8

const (
	TileWall  Tile = iota // Solid rock, blocks movement and light
	TileFloor             // Open floor
)

// String returns a short name for the tile kind.
func (t Tile) String() string {
	switch t {
	case TileWall:
		return "wall"
	case TileFloor:
		return "floor"
	default:
		return "unknown"
	}
}

// Walkable reports whether agents may stand on the tile.
func (t Tile) Walkable() bool { return t == TileFloor }

// BlocksLight reports whether the tile stops visibility rays.
func (t Tile) BlocksLight() bool { return t != TileFloor }

// glyph is the single-character text encoding used by Rows and ParseTileGrid.
func (t Tile) glyph() byte {
	if t == TileFloor {
		return '.'
	}
	return '#'
}

// ErrRaggedGrid is returned by ParseTileGrid when rows differ in length.
var ErrRaggedGrid = errors.New("tile rows have different lengths")

// TileGrid is the static level map. Tiles are stored row-major.
// The simulation never mutates a grid after generation; fog state lives
// in VisibilityField, keyed by tile index.
type TileGrid struct {
	Cols     int
	Rows     int
	TileSize float64
	tiles    []Tile
}

// NewTileGrid creates a grid of the given size filled with walls.
func NewTileGrid(cols, rows int, tileSize float64) *TileGrid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &TileGrid{
		Cols:     cols,
		Rows:     rows,
		TileSize: tileSize,
		tiles:    make([]Tile, cols*rows),
	}
}

func (g *TileGrid) inBounds(col, row int) bool {
	return col >= 0 && col < g.Cols && row >= 0 && row < g.Rows
}

// index returns the row-major index of a tile. Caller checks bounds.
func (g *TileGrid) index(col, row int) int { return row*g.Cols + col }

// At returns the tile at (col,row). Out of bounds reads as wall.
func (g *TileGrid) At(col, row int) Tile {
	if !g.inBounds(col, row) {
		return TileWall
	}
	return g.tiles[g.index(col, row)]
}

// set writes a tile. Out-of-bounds writes are dropped.
func (g *TileGrid) set(col, row int, t Tile) {
	if !g.inBounds(col, row) {
		return
	}
	g.tiles[g.index(col, row)] = t
}

// IsWall reports whether (col,row) is a wall. Out of bounds is a wall.
func (g *TileGrid) IsWall(col, row int) bool { return g.At(col, row) == TileWall }

// IsFloor reports whether (col,row) is floor. Out of bounds is not floor.
func (g *TileGrid) IsFloor(col, row int) bool { return g.At(col, row) == TileFloor }

// Walkable reports whether an agent may occupy (col,row).
func (g *TileGrid) Walkable(col, row int) bool { return g.At(col, row).Walkable() }

// BlocksLight reports whether (col,row) stops a visibility ray.
func (g *TileGrid) BlocksLight(col, row int) bool { return g.At(col, row).BlocksLight() }

// WorldToTile converts a world-space point to tile coordinates.
func (g *TileGrid) WorldToTile(x, y float64) (int, int) {
	return int(math.Floor(x / g.TileSize)), int(math.Floor(y / g.TileSize))
}

// TileCenter returns the world-space centre of (col,row).
func (g *TileGrid) TileCenter(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * g.TileSize, (float64(row) + 0.5) * g.TileSize
}

// IsWallAt reports whether the world-space point lies on a wall tile.
func (g *TileGrid) IsWallAt(x, y float64) bool {
	return g.IsWall(g.WorldToTile(x, y))
}

// floorNeighbours counts 4-connected floor tiles around (col,row).
func (g *TileGrid) floorNeighbours(col, row int) int {
	n := 0
	for _, d := range cardinalDirs {
		if g.IsFloor(col+d[0], row+d[1]) {
			n++
		}
	}
	return n
}

// cardinalDirs are the four 4-connected offsets in N, E, S, W order.
var cardinalDirs = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// NearestFloor returns the floor tile closest (squared tile distance) to
// (col,row). ok is false when the grid has no floor at all.
func (g *TileGrid) NearestFloor(col, row int) (fc, fr int, ok bool) {
	best := math.MaxInt
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if g.tiles[g.index(c, r)] != TileFloor {
				continue
			}
			dc, dr := c-col, r-row
			if d := dc*dc + dr*dr; d < best {
				best = d
				fc, fr, ok = c, r, true
			}
		}
	}
	return fc, fr, ok
}

// FloorCount returns the number of floor tiles.
func (g *TileGrid) FloorCount() int {
	n := 0
	for _, t := range g.tiles {
		if t == TileFloor {
			n++
		}
	}
	return n
}

// ConnectedFloorCount flood-fills from (col,row) over 4-connected floor and
// returns the number of tiles reached. A non-floor start reaches nothing.
func (g *TileGrid) ConnectedFloorCount(col, row int) int {
	if !g.IsFloor(col, row) {
		return 0
	}
	seen := make([]bool, len(g.tiles))
	stack := [][2]int{{col, row}}
	seen[g.index(col, row)] = true
	n := 0
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		for _, d := range cardinalDirs {
			nc, nr := p[0]+d[0], p[1]+d[1]
			if !g.IsFloor(nc, nr) {
				continue
			}
			i := g.index(nc, nr)
			if seen[i] {
				continue
			}
			seen[i] = true
			stack = append(stack, [2]int{nc, nr})
		}
	}
	return n
}

// DeadEnds counts floor tiles with exactly one floor neighbour.
func (g *TileGrid) DeadEnds() int {
	n := 0
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			if g.IsFloor(c, r) && g.floorNeighbours(c, r) == 1 {
				n++
			}
		}
	}
	return n
}

// BorderIsWall reports whether the outer ring is entirely wall.
func (g *TileGrid) BorderIsWall() bool {
	for c := 0; c < g.Cols; c++ {
		if g.IsFloor(c, 0) || g.IsFloor(c, g.Rows-1) {
			return false
		}
	}
	for r := 0; r < g.Rows; r++ {
		if g.IsFloor(0, r) || g.IsFloor(g.Cols-1, r) {
			return false
		}
	}
	return true
}

// TextRows encodes the grid as one string per row, '#' for wall and '.' for floor.
func (g *TileGrid) TextRows() []string {
	out := make([]string, g.Rows)
	buf := make([]byte, g.Cols)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			buf[c] = g.tiles[g.index(c, r)].glyph()
		}
		out[r] = string(buf)
	}
	return out
}

// String renders the grid as newline-separated rows.
func (g *TileGrid) String() string {
	return strings.Join(g.TextRows(), "\n")
}

// ParseTileGrid decodes rows produced by TextRows. Any glyph other than '.'
// is read as wall.
func ParseTileGrid(rows []string, tileSize float64) (*TileGrid, error) {
	if len(rows) == 0 {
		return nil, errors.New("parse tile grid: no rows")
	}
	cols := len(rows[0])
	g := NewTileGrid(cols, len(rows), tileSize)
	for r, line := range rows {
		if len(line) != cols {
			return nil, fmt.Errorf("parse tile grid: row %d has %d tiles, want %d: %w", r, len(line), cols, ErrRaggedGrid)
		}
		for c := 0; c < cols; c++ {
			if line[c] == '.' {
				g.tiles[g.index(c, r)] = TileFloor
			}
		}
	}
	return g, nil
}

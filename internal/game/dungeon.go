package game

import (
	"math/rand"
)

// maze cell edge bits.
const (
	edgeN uint8 = 1 << iota
	edgeE
	edgeS
	edgeW
)

// mazeDirs pairs each cell step with the edge bit it opens on both sides.
var mazeDirs = [4]struct {
	dx, dy    int
	bit, undo uint8
}{
	{0, -1, edgeN, edgeS},
	{1, 0, edgeE, edgeW},
	{0, 1, edgeS, edgeN},
	{-1, 0, edgeW, edgeE},
}

// mazeCells is the spanning tree produced by carveMaze: one edge bitmask
// per cell, row-major, plus the cell the walk started from.
type mazeCells struct {
	w, h           int
	edges          []uint8
	startX, startY int
}

// GenerateDungeon builds a tile grid of (2*cellsWide+1) x (2*cellsHigh+1)
// tiles. All randomness is drawn from rng, so equal seeds give equal grids.
//
// Passes, in order:
//  1. perfect maze by iterative depth-first backtracking
//  2. projection of cells and open edges to floor tiles
//  3. random rectangular rooms
//  4. loop augmentation on separating walls
//  5. dead-end braiding
//  6. border enforcement
func GenerateDungeon(cellsWide, cellsHigh int, rng *rand.Rand, cfg LevelConfig) *TileGrid {
	if cellsWide < 1 {
		cellsWide = 1
	}
	if cellsHigh < 1 {
		cellsHigh = 1
	}
	maze := carveMaze(cellsWide, cellsHigh, rng)
	g := projectMaze(maze, cfg.TileSize)
	carveRooms(g, rng, roomCount(cellsWide, cellsHigh, cfg))
	addLoops(g, rng, cfg.LoopProb)
	for pass := 0; pass < cfg.DeadEndPasses; pass++ {
		braidDeadEnds(g, rng, cfg.BraidChance)
	}
	enforceBorder(g)
	return g
}

// carveMaze runs the randomized depth-first backtracker over a w x h cell graph.
func carveMaze(w, h int, rng *rand.Rand) mazeCells {
	m := mazeCells{w: w, h: h, edges: make([]uint8, w*h)}
	visited := make([]bool, w*h)
	m.startX = rng.Intn(w)
	m.startY = rng.Intn(h)

	stack := [][2]int{{m.startX, m.startY}}
	visited[m.startY*w+m.startX] = true
	order := [4]int{0, 1, 2, 3}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		advanced := false
		for _, k := range order {
			d := mazeDirs[k]
			nx, ny := cur[0]+d.dx, cur[1]+d.dy
			if nx < 0 || ny < 0 || nx >= w || ny >= h || visited[ny*w+nx] {
				continue
			}
			m.edges[cur[1]*w+cur[0]] |= d.bit
			m.edges[ny*w+nx] |= d.undo
			visited[ny*w+nx] = true
			stack = append(stack, [2]int{nx, ny})
			advanced = true
			break
		}
		if !advanced {
			stack = stack[:len(stack)-1]
		}
	}
	return m
}

// projectMaze maps cell (x,y) to tile (2x+1, 2y+1) and opens the tile
// between cells joined by an east or south edge.
func projectMaze(m mazeCells, tileSize float64) *TileGrid {
	g := NewTileGrid(2*m.w+1, 2*m.h+1, tileSize)
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			tx, ty := 2*x+1, 2*y+1
			g.set(tx, ty, TileFloor)
			e := m.edges[y*m.w+x]
			if e&edgeE != 0 {
				g.set(tx+1, ty, TileFloor)
			}
			if e&edgeS != 0 {
				g.set(tx, ty+1, TileFloor)
			}
		}
	}
	return g
}

func roomCount(cellsWide, cellsHigh int, cfg LevelConfig) int {
	n := 0
	if cfg.RoomDensityDiv > 0 {
		n = cellsWide * cellsHigh / cfg.RoomDensityDiv
	}
	if n < cfg.RoomMin {
		n = cfg.RoomMin
	}
	return n
}

// rndInt returns a uniform integer in [lo, hi].
func rndInt(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// carveRooms opens count rectangles of 2..5 tiles per side. A room keeps
// a one-tile margin inside the border wall; grids too small to fit a
// 2x2 room get none.
func carveRooms(g *TileGrid, rng *rand.Rand, count int) {
	maxW := min(5, g.Cols-3)
	maxH := min(5, g.Rows-3)
	if maxW < 2 || maxH < 2 {
		return
	}
	for i := 0; i < count; i++ {
		rw := rndInt(rng, 2, maxW)
		rh := rndInt(rng, 2, maxH)
		rx := rndInt(rng, 1, g.Cols-rw-2)
		ry := rndInt(rng, 1, g.Rows-rh-2)
		for y := ry; y < ry+rh; y++ {
			for x := rx; x < rx+rw; x++ {
				g.set(x, y, TileFloor)
			}
		}
	}
}

// addLoops opens interior walls that separate two floor tiles with
// probability p, or walls with three or more floor neighbours with p/2.
// The scan sees its own earlier openings.
func addLoops(g *TileGrid, rng *rand.Rand, p float64) {
	for y := 1; y < g.Rows-1; y++ {
		for x := 1; x < g.Cols-1; x++ {
			if !g.IsWall(x, y) {
				continue
			}
			lr := g.IsFloor(x-1, y) && g.IsFloor(x+1, y)
			ud := g.IsFloor(x, y-1) && g.IsFloor(x, y+1)
			if lr || ud {
				if rng.Float64() < p {
					g.set(x, y, TileFloor)
				}
				continue
			}
			if g.floorNeighbours(x, y) >= 3 && rng.Float64() < p/2 {
				g.set(x, y, TileFloor)
			}
		}
	}
}

// braidDeadEnds runs one braiding pass. A dead end is a floor tile with a
// single floor neighbour; with probability chance it knocks through a wall
// that has floor directly behind it.
func braidDeadEnds(g *TileGrid, rng *rand.Rand, chance float64) {
	var cand [4][2]int
	for y := 2; y < g.Rows-2; y++ {
		for x := 2; x < g.Cols-2; x++ {
			if !g.IsFloor(x, y) || g.floorNeighbours(x, y) != 1 {
				continue
			}
			if rng.Float64() > chance {
				continue
			}
			n := 0
			for _, d := range cardinalDirs {
				if g.IsWall(x+d[0], y+d[1]) && g.IsFloor(x+2*d[0], y+2*d[1]) {
					cand[n] = d
					n++
				}
			}
			if n == 0 {
				continue
			}
			d := cand[rng.Intn(n)]
			g.set(x+d[0], y+d[1], TileFloor)
		}
	}
}

// enforceBorder forces the outer ring back to wall.
func enforceBorder(g *TileGrid) {
	for x := 0; x < g.Cols; x++ {
		g.set(x, 0, TileWall)
		g.set(x, g.Rows-1, TileWall)
	}
	for y := 0; y < g.Rows; y++ {
		g.set(0, y, TileWall)
		g.set(g.Cols-1, y, TileWall)
	}
}

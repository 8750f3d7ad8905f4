package view

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/Garsondee/Dungeon-Sense/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	colBackground = color.RGBA{R: 8, G: 7, B: 7, A: 255}
	colFloor      = color.RGBA{R: 52, G: 46, B: 40, A: 255}
	colWall       = color.RGBA{R: 92, G: 84, B: 76, A: 255}
	colWallEdge   = color.RGBA{R: 30, G: 26, B: 22, A: 255}
	colExit       = color.RGBA{R: 90, G: 200, B: 230, A: 255}
	colPlayer     = color.RGBA{R: 235, G: 225, B: 200, A: 255}
	colSwing      = color.RGBA{R: 255, G: 240, B: 170, A: 200}
	colAim        = color.RGBA{R: 255, G: 255, B: 255, A: 40}
	colCorpse     = color.RGBA{R: 70, G: 60, B: 55, A: 255}
	colHUDBox     = color.RGBA{R: 10, G: 8, B: 8, A: 210}
	colHUDEdge    = color.RGBA{R: 100, G: 80, B: 60, A: 180}
	colHUDText    = color.RGBA{R: 230, G: 220, B: 200, A: 255}
)

// hostileColors maps stock type names to body colours. Unknown names use
// the first entry's colour.
var hostileColors = map[string]color.RGBA{
	"green":  {R: 90, G: 190, B: 80, A: 255},
	"yellow": {R: 225, G: 200, B: 60, A: 255},
	"red":    {R: 215, G: 60, B: 50, A: 255},
}

// Draw renders one frame.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)
	f := g.world.Frame()

	g.drawTiles(screen)
	g.drawExit(screen, f)
	g.drawAgents(screen, f)
	g.drawFog(screen)
	g.drawPlayer(screen, f)

	g.events.Draw(screen, g.face, g.width-logPanelWidth, g.height)
	if g.showHUD {
		g.drawHUD(screen, f)
	}
}

func (g *Game) drawTiles(screen *ebiten.Image) {
	gr := g.world.Grid()
	ts := float32(gr.TileSize)
	c0, r0, c1, r1 := g.cam.visibleTiles(gr)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			x, y := g.cam.toScreen(float64(c)*gr.TileSize, float64(r)*gr.TileSize)
			v := g.shade.at(c, r)
			if gr.IsWall(c, r) {
				vector.DrawFilledRect(screen, x, y, ts, ts, tint(colWall, v, 14), false)
				vector.StrokeLine(screen, x, y+ts, x+ts, y+ts, 1.0, colWallEdge, false)
				continue
			}
			vector.DrawFilledRect(screen, x, y, ts, ts, tint(colFloor, v, 10), false)
		}
	}
}

func (g *Game) drawExit(screen *ebiten.Image, f game.Frame) {
	gr := g.world.Grid()
	ex, ey := gr.TileCenter(f.ExitCol, f.ExitRow)
	x, y := g.cam.toScreen(ex, ey)
	r := float32(gr.TileSize) * 0.35
	pulse := float32(0.5 + 0.5*math.Sin(float64(f.Tick)*0.08))
	vector.StrokeCircle(screen, x, y, r, 2, colExit, true)
	vector.DrawFilledCircle(screen, x, y, r*0.4*(0.6+0.4*pulse), colExit, true)
}

// drawAgents draws hostiles with their fog alpha applied.
func (g *Game) drawAgents(screen *ebiten.Image, f game.Frame) {
	for _, a := range f.Agents {
		if a.Kind != game.AgentHostile || a.Alpha <= 0.01 {
			continue
		}
		x, y := g.cam.toScreen(a.X, a.Y)
		r := float32(a.Radius)
		if a.State == game.StateDead {
			c := fade(colCorpse, a.Alpha)
			vector.StrokeLine(screen, x-r*0.7, y-r*0.7, x+r*0.7, y+r*0.7, 2, c, true)
			vector.StrokeLine(screen, x-r*0.7, y+r*0.7, x+r*0.7, y-r*0.7, 2, c, true)
			continue
		}
		body, ok := hostileColors[a.Type]
		if !ok {
			body = hostileColors["green"]
		}
		vector.DrawFilledCircle(screen, x, y, r, fade(body, a.Alpha), true)
		fx := x + float32(math.Cos(a.Facing))*r
		fy := y + float32(math.Sin(a.Facing))*r
		vector.StrokeLine(screen, x, y, fx, fy, 2, fade(colBackground, a.Alpha), true)
		if a.AttackActive {
			vector.StrokeCircle(screen, x, y, r+3, 1.5, fade(colLogHurt, a.Alpha), true)
		}
		drawHealthBar(screen, x, y-r-5, r*2, a.HealthRatio, a.Alpha)
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image, f game.Frame) {
	p := f.Agents[0]
	x, y := g.cam.toScreen(p.X, p.Y)
	r := float32(p.Radius)

	ax, ay := g.cam.toScreen(f.AimX, f.AimY)
	vector.StrokeLine(screen, x, y, ax, ay, 1, colAim, false)

	vector.DrawFilledCircle(screen, x, y, r, colPlayer, true)
	fx := x + float32(math.Cos(p.Facing))*r
	fy := y + float32(math.Sin(p.Facing))*r
	vector.StrokeLine(screen, x, y, fx, fy, 2, colBackground, true)

	if p.AttackActive {
		cc := g.world.Config().Combat
		reach := float32(cc.Range) + r
		for _, da := range []float64{-cc.Cone, 0, cc.Cone} {
			ang := p.Facing + da
			vector.StrokeLine(screen, x, y, x+float32(math.Cos(ang))*reach, y+float32(math.Sin(ang))*reach, 1.5, colSwing, true)
		}
	}
}

// drawFog shades every on-screen tile by the world's overlay alpha.
func (g *Game) drawFog(screen *ebiten.Image) {
	if !g.world.FogEnabled() {
		return
	}
	gr := g.world.Grid()
	ts := float32(gr.TileSize)
	c0, r0, c1, r1 := g.cam.visibleTiles(gr)
	for r := r0; r <= r1; r++ {
		for c := c0; c <= c1; c++ {
			a := g.world.OverlayAlpha(c, r)
			if a <= 0.004 {
				continue
			}
			x, y := g.cam.toScreen(float64(c)*gr.TileSize, float64(r)*gr.TileSize)
			vector.DrawFilledRect(screen, x, y, ts, ts, color.RGBA{A: uint8(a*255 + 0.5)}, false)
		}
	}
}

func drawHealthBar(screen *ebiten.Image, cx, y, w float32, ratio, alpha float64) {
	x := cx - w/2
	vector.DrawFilledRect(screen, x, y, w, 3, fade(color.RGBA{R: 40, G: 10, B: 10, A: 255}, alpha), false)
	vector.DrawFilledRect(screen, x, y, w*float32(ratio), 3, fade(color.RGBA{R: 200, G: 50, B: 40, A: 255}, alpha), false)
}

// fade scales c by alpha, premultiplied as ebiten expects.
func fade(c color.RGBA, alpha float64) color.RGBA {
	a := math.Max(0, math.Min(1, alpha))
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

func (g *Game) drawHUD(screen *ebiten.Image, f game.Frame) {
	p := g.world.Player()
	gr := g.world.Grid()
	explored := 0
	floor := gr.FloorCount()
	for r := 0; r < gr.Rows; r++ {
		for c := 0; c < gr.Cols; c++ {
			if gr.IsFloor(c, r) && g.world.Fog().IsExplored(c, r) {
				explored++
			}
		}
	}
	pct := 0.0
	if floor > 0 {
		pct = 100 * float64(explored) / float64(floor)
	}

	state := "RUNNING"
	switch {
	case f.GameOver:
		state = "DEAD"
	case g.clock.Paused():
		state = "PAUSED"
	case f.ExitReached:
		state = "EXIT FOUND"
	}
	lines := []string{
		fmt.Sprintf("HP %.0f/%.0f   %s", p.HP, p.HPMax, state),
		fmt.Sprintf("tick %d  seed %d  hostiles %d", f.Tick, g.seed, g.world.LiveHostiles()),
		fmt.Sprintf("explored %.0f%%", pct),
		"WASD move  mouse aim  LMB/space attack",
		"P pause  C copy report  F5 save  R new  H hud",
	}
	if g.status != "" && time.Now().Before(g.statusUntil) {
		lines = append(lines, "> "+g.status)
	}

	const (
		lineH = 15
		charW = 7
		padX  = 6
		padY  = 5
	)
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	bx, by := float32(8), float32(g.height)-boxH-8

	vector.DrawFilledRect(screen, bx, by, boxW, boxH, colHUDBox, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, colHUDEdge, false)
	// HP strip along the top edge.
	vector.DrawFilledRect(screen, bx+1, by+1, (boxW-2)*float32(p.HealthRatio()), 2, colLogHurt, false)

	for i, l := range lines {
		drawText(screen, g.face, l, int(bx)+padX, int(by)+padY+i*lineH, colHUDText)
	}
}

package view

import (
	"image/color"
	"math"
	"testing"

	"github.com/Garsondee/Dungeon-Sense/internal/game"
)

var arena = []string{
	"############",
	"#..........#",
	"#..........#",
	"#..........#",
	"#..........#",
	"############",
}

func TestEventLog_RingOrder(t *testing.T) {
	el := NewEventLog()
	for i := 0; i < logMaxEntries+5; i++ {
		el.Add(i, "P", "x", colLogSystem)
	}
	got := el.Recent()
	if len(got) != logMaxEntries {
		t.Fatalf("entries=%d, want %d", len(got), logMaxEntries)
	}
	if got[0].Tick != 5 || got[len(got)-1].Tick != logMaxEntries+4 {
		t.Fatalf("oldest=%d newest=%d", got[0].Tick, got[len(got)-1].Tick)
	}
}

func TestEventLog_AddEventsSkipsNoise(t *testing.T) {
	ts := game.NewTestSim(
		game.WithGridRows(arena...),
		game.WithPlayerAt(100, 96),
		game.WithHostile("green", 130, 96),
	)
	el := NewEventLog()
	ts.World.Step(game.SimDT, game.Input{AimX: 300, AimY: 96, Attack: true})
	el.AddEvents(ts.World, ts.World.Events().Drain())

	got := el.Recent()
	if len(got) != 2 {
		t.Fatalf("entries=%+v, want a hit taken and a hit dealt", got)
	}
	if got[0].Label != "P" || got[0].Color != colLogHurt {
		t.Fatalf("first entry=%+v, want the player being hit", got[0])
	}
	if got[1].Label != "H1" || got[1].Message != "hit for 18" {
		t.Fatalf("second entry=%+v", got[1])
	}
}

func TestCamera_RoundTripAndClamp(t *testing.T) {
	c := camera{viewW: 400, viewH: 300}
	c.snap(500, 500, 2000, 1000)
	sx, sy := c.toScreen(520, 470)
	wx, wy := c.toWorld(int(sx), int(sy))
	if wx != 520 || wy != 470 {
		t.Fatalf("round trip=(%.1f,%.1f)", wx, wy)
	}

	c.snap(0, 0, 2000, 1000)
	if c.x != 200 || c.y != 150 {
		t.Fatalf("camera not clamped to the top-left: (%.1f,%.1f)", c.x, c.y)
	}
	c.snap(0, 0, 100, 100)
	if c.x != 50 || c.y != 50 {
		t.Fatalf("small world should be centred: (%.1f,%.1f)", c.x, c.y)
	}
}

func TestCamera_FollowEases(t *testing.T) {
	c := camera{viewW: 400, viewH: 300}
	c.snap(1000, 500, 4000, 4000)
	c.follow(1100, 500, 1.0/60, 4000, 4000)
	if c.x <= 1000 || c.x >= 1100 {
		t.Fatalf("x=%.2f, want strictly between start and target", c.x)
	}
	c.follow(1100, 500, 0, 4000, 4000)
	prev := c.x
	c.follow(1100, 500, 0, 4000, 4000)
	if c.x != prev {
		t.Fatal("zero dt should not move the camera")
	}
}

func TestCamera_VisibleTilesInBounds(t *testing.T) {
	g, err := game.ParseTileGrid(arena, 32)
	if err != nil {
		t.Fatal(err)
	}
	c := camera{viewW: 1000, viewH: 1000}
	c.snap(0, 0, 12*32, 6*32)
	c0, r0, c1, r1 := c.visibleTiles(g)
	if c0 != 0 || r0 != 0 || c1 != 11 || r1 != 5 {
		t.Fatalf("range=(%d,%d)-(%d,%d)", c0, r0, c1, r1)
	}
}

func TestShadeMap_DeterministicAndBounded(t *testing.T) {
	g, err := game.ParseTileGrid(arena, 32)
	if err != nil {
		t.Fatal(err)
	}
	a := newShadeMap(g, 3)
	b := newShadeMap(g, 3)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			v := a.at(c, r)
			if v < 0 || v > 1 || math.IsNaN(v) {
				t.Fatalf("shade(%d,%d)=%.3f out of range", c, r, v)
			}
			if v != b.at(c, r) {
				t.Fatal("same seed gave different shades")
			}
		}
	}
	if a.at(-1, 0) != 0.5 || a.at(0, 99) != 0.5 {
		t.Fatal("out-of-range lookups should be neutral")
	}
}

func TestTintAndFade(t *testing.T) {
	base := color.RGBA{R: 250, G: 10, B: 100, A: 255}
	if got := tint(base, 1, 20); got.R != 255 || got.G != 30 || got.B != 120 {
		t.Fatalf("tint=%+v", got)
	}
	if got := tint(base, 0, 20); got.R != 230 || got.G != 0 || got.B != 80 {
		t.Fatalf("tint=%+v", got)
	}
	if got := fade(base, 0); got != (color.RGBA{}) {
		t.Fatalf("fade to zero=%+v", got)
	}
	if got := fade(base, 2); got != base {
		t.Fatalf("fade above one should clamp: %+v", got)
	}
}

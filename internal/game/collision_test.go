package game

import (
	"math"
	"testing"
)

func approx(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestResolveCircleVsAABB_CornerPush(t *testing.T) {
	mx, my, ok := ResolveCircleVsAABB(5, 5, 3, 0, 0, 4, 4)
	if !ok {
		t.Fatal("expected a push")
	}
	want := (3 - math.Sqrt2) / math.Sqrt2
	if !approx(mx, want, 1e-9) || !approx(my, want, 1e-9) {
		t.Fatalf("push=(%.4f,%.4f), want (%.4f,%.4f)", mx, my, want, want)
	}
	if !approx(mx, 1.121, 1e-3) {
		t.Fatalf("mx=%.4f, want ~1.121", mx)
	}
}

func TestResolveCircleVsAABB_NoOverlap(t *testing.T) {
	if _, _, ok := ResolveCircleVsAABB(10, 10, 3, 0, 0, 4, 4); ok {
		t.Fatal("circle clear of the box should not push")
	}
	// Exactly touching counts as clear.
	if _, _, ok := ResolveCircleVsAABB(7, 2, 3, 0, 0, 4, 4); ok {
		t.Fatal("touching circle should not push")
	}
}

func TestResolveCircleVsAABB_CentreInsideBox(t *testing.T) {
	if _, _, ok := ResolveCircleVsAABB(2, 2, 3, 0, 0, 4, 4); ok {
		t.Fatal("centre on the nearest point has no direction; expected no push")
	}
}

func TestResolveCircleVsCircle_AsymmetricSplit(t *testing.T) {
	a := &Body{X: 0, Y: 0, Radius: 5}
	b := &Body{X: 8, Y: 0, Radius: 5}
	ResolveCircleVsCircle(a, b)
	if !approx(a.X, -1.3, 1e-9) || a.Y != 0 {
		t.Fatalf("a=(%.4f,%.4f), want (-1.3,0)", a.X, a.Y)
	}
	if !approx(b.X, 8.7, 1e-9) || b.Y != 0 {
		t.Fatalf("b=(%.4f,%.4f), want (8.7,0)", b.X, b.Y)
	}
	if d := math.Hypot(b.X-a.X, b.Y-a.Y); !approx(d, 10, 1e-9) {
		t.Fatalf("separation=%.6f, want 10", d)
	}
}

func TestResolveCircleVsCircle_NoOps(t *testing.T) {
	a := &Body{X: 3, Y: 3, Radius: 5}
	b := &Body{X: 3, Y: 3, Radius: 5}
	ResolveCircleVsCircle(a, b)
	if a.X != 3 || b.X != 3 {
		t.Fatal("concentric circles should be left alone")
	}
	c := &Body{X: 0, Y: 0, Radius: 5}
	d := &Body{X: 10, Y: 0, Radius: 5}
	ResolveCircleVsCircle(c, d)
	if c.X != 0 || d.X != 10 {
		t.Fatal("touching circles should be left alone")
	}
}

func TestResolveBodyVsWalls_PushesOut(t *testing.T) {
	g := mustGrid(t, roomRows(10, 5)...)
	b := &Body{X: 40, Y: 80, Radius: 12, VX: -30}
	n := ResolveBodyVsWalls(b, g)
	if n != 1 {
		t.Fatalf("pushes=%d, want 1", n)
	}
	if !approx(b.X, 44, 1e-9) || b.Y != 80 {
		t.Fatalf("body at (%.3f,%.3f), want (44,80)", b.X, b.Y)
	}
	if b.VX != -30 {
		t.Fatalf("velocity against the push should be untouched, got %.2f", b.VX)
	}
}

func TestResolveBodyVsWalls_DampsAlongPush(t *testing.T) {
	g := mustGrid(t, roomRows(10, 5)...)
	b := &Body{X: 40, Y: 80, Radius: 12, VX: 10, VY: 5}
	ResolveBodyVsWalls(b, g)
	if !approx(b.VX, 6, 1e-9) || !approx(b.VY, 3, 1e-9) {
		t.Fatalf("velocity=(%.2f,%.2f), want (6,3)", b.VX, b.VY)
	}
}

func TestResolveBodyVsWalls_ClearOfWalls(t *testing.T) {
	g := mustGrid(t, roomRows(10, 5)...)
	b := &Body{X: 160, Y: 80, Radius: 12}
	if n := ResolveBodyVsWalls(b, g); n != 0 {
		t.Fatalf("pushes=%d in open floor, want 0", n)
	}
}

func TestResolveBodyVsWalls_OutOfBoundsIsSolid(t *testing.T) {
	// A grid with no wall ring: tiles beyond the edge still push.
	g := mustGrid(t, "...", "...", "...")
	b := &Body{X: 5, Y: 48, Radius: 12}
	ResolveBodyVsWalls(b, g)
	if !approx(b.X, 12, 1e-9) {
		t.Fatalf("x=%.3f, want 12 after push from the void", b.X)
	}
}

package game

import (
	"math"
	"testing"
)

func openRoom(opts ...SimOption) *TestSim {
	base := []SimOption{WithGridRows(roomRows(30, 20)...), WithPlayerAt(480, 320)}
	return NewTestSim(append(base, opts...)...)
}

func TestPlayer_DiagonalInputIsNormalised(t *testing.T) {
	ts := openRoom()
	ts.Step(Input{MoveX: 1, MoveY: 1, AimX: 1000, AimY: 320})
	p := ts.Player()
	want := 1560.0 / 60 * 0.88
	if sp := math.Hypot(p.VX, p.VY); !approx(sp, want, 1e-9) {
		t.Fatalf("diagonal speed=%.4f, want %.4f", sp, want)
	}
	if !approx(p.VX, p.VY, 1e-12) {
		t.Fatalf("velocity=(%.4f,%.4f), want equal components", p.VX, p.VY)
	}
}

func TestPlayer_MaxSpeedCap(t *testing.T) {
	ts := openRoom(WithConfig(func(c *Config) { c.Player.MaxSpeed = 100 }))
	ts.RunTicks(120, Input{MoveX: 1, MoveY: 0.5})
	sp := math.Hypot(ts.Player().VX, ts.Player().VY)
	if sp > 100+1e-9 || sp < 99 {
		t.Fatalf("speed=%.3f, want capped at 100", sp)
	}
}

func TestPlayer_IdleDamping(t *testing.T) {
	ts := openRoom()
	ts.RunTicks(20, Input{MoveX: 1})
	before := ts.Player().VX
	ts.Step(Input{})
	if got := ts.Player().VX / before; !approx(got, 0.78, 1e-9) {
		t.Fatalf("idle retention=%.4f, want 0.78", got)
	}
}

func TestPlayer_Facing(t *testing.T) {
	ts := openRoom()
	ts.Step(Input{AimX: 480, AimY: 420})
	if f := ts.Player().Facing; !approx(f, math.Pi/2, 1e-9) {
		t.Fatalf("facing=%.4f, want pi/2", f)
	}
	ts.Step(Input{AimX: 480, AimY: 420, AimAngle: 1, UseAimAngle: true})
	if f := ts.Player().Facing; f != 1 {
		t.Fatalf("facing=%.4f, want the explicit angle", f)
	}
}

func TestPlayer_StopsAtWall(t *testing.T) {
	ts := NewTestSim(WithGridRows(roomRows(12, 6)...), WithPlayerAt(60, 96))
	ts.RunTicks(60, Input{MoveX: -1})
	p := ts.Player()
	if p.X < 44-1e-9 {
		t.Fatalf("player x=%.3f overlaps the west wall", p.X)
	}
	if !approx(p.Y, 96, 1e-9) {
		t.Fatalf("player drifted vertically to %.3f", p.Y)
	}
}

func TestPlayer_StateFollowsSwingWindow(t *testing.T) {
	ts := openRoom()
	ts.Step(Input{Attack: true})
	if s := ts.Player().State; s != StateAttacking {
		t.Fatalf("state=%s during swing, want attacking", s)
	}
	ts.RunTicks(10, Input{})
	if s := ts.Player().State; s != StateIdle {
		t.Fatalf("state=%s after window, want idle", s)
	}
}

func TestUpdateSwing_OnePerPress(t *testing.T) {
	cc := DefaultConfig().Combat
	p := newPlayer(0, 0, 0, DefaultConfig().Player)
	swings := 0
	for i := 0; i < 120; i++ {
		before := p.attackCooldown
		updateSwing(p, true, cc, SimDT)
		if p.attackCooldown > before {
			swings++
		}
	}
	if swings != 1 {
		t.Fatalf("held press opened %d swings, want 1", swings)
	}
}

func TestUpdateSwing_BufferedPress(t *testing.T) {
	cc := DefaultConfig().Combat
	p := newPlayer(0, 0, 0, DefaultConfig().Player)
	p.attackCooldown = 0.1

	updateSwing(p, true, cc, SimDT)
	if p.attackWindow > 0 {
		t.Fatal("swing opened during cooldown")
	}
	for i := 0; i < 10 && p.attackWindow == 0; i++ {
		updateSwing(p, true, cc, SimDT)
	}
	if p.attackWindow <= 0 {
		t.Fatal("held press never swung after the cooldown")
	}
}

func TestUpdateSwing_ReleaseClearsLatchAfterWindow(t *testing.T) {
	cc := DefaultConfig().Combat
	p := newPlayer(0, 0, 0, DefaultConfig().Player)
	updateSwing(p, true, cc, SimDT)
	p.hitLatched = true

	updateSwing(p, false, cc, SimDT)
	if !p.hitLatched {
		t.Fatal("latch cleared while the window was still open")
	}
	for i := 0; i < 10; i++ {
		updateSwing(p, false, cc, SimDT)
	}
	if p.hitLatched {
		t.Fatal("latch should clear on release once the window closes")
	}
}

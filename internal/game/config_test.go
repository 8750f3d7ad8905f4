package game

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_SurvivesClamp(t *testing.T) {
	want := DefaultConfig()
	got := DefaultConfig()
	got.Clamp()
	if got.Level != want.Level || got.Fog != want.Fog || got.Player != want.Player ||
		got.Combat != want.Combat || got.Sim != want.Sim {
		t.Fatalf("Clamp altered the defaults:\n got %+v\nwant %+v", got, want)
	}
	if got.Hostiles.Count != want.Hostiles.Count || len(got.Hostiles.Types) != 3 {
		t.Fatalf("hostile defaults altered: %+v", got.Hostiles)
	}
}

func TestConfig_ClampBounds(t *testing.T) {
	c := DefaultConfig()
	c.Level.CellsWide = 0
	c.Level.CellsHigh = 10000
	c.Hostiles.Count = -4
	c.Fog.Rays = 1
	c.Combat.Cone = 10
	c.Sim.MaxDelta = 0
	c.Hostiles.WanderMin = 5
	c.Hostiles.WanderMax = 1
	c.Clamp()

	if c.Level.CellsWide != 1 || c.Level.CellsHigh != 256 {
		t.Fatalf("cells=%dx%d", c.Level.CellsWide, c.Level.CellsHigh)
	}
	if c.Hostiles.Count != 0 || c.Fog.Rays != 8 {
		t.Fatalf("count=%d rays=%d", c.Hostiles.Count, c.Fog.Rays)
	}
	if c.Combat.Cone > 3.15 || c.Sim.MaxDelta != 0.001 {
		t.Fatalf("cone=%.2f maxDelta=%.3f", c.Combat.Cone, c.Sim.MaxDelta)
	}
	if c.Hostiles.WanderMax < c.Hostiles.WanderMin {
		t.Fatalf("wander range inverted: %.1f..%.1f", c.Hostiles.WanderMin, c.Hostiles.WanderMax)
	}
}

func TestConfig_ClampHostileTypes(t *testing.T) {
	c := DefaultConfig()
	c.Hostiles.Types = []HostileType{{HP: -1, Weight: 0}, {Name: "b", HP: 10}}
	c.Clamp()
	types := c.Hostiles.Types
	if types[0].Name != "type0" || types[0].HP != 1 {
		t.Fatalf("first type=%+v", types[0])
	}
	if types[0].Weight != 1 || types[1].Weight != 1 {
		t.Fatalf("all-zero weights should become uniform: %+v", types)
	}

	c.Hostiles.Types = nil
	c.Clamp()
	if len(c.Hostiles.Types) != 3 {
		t.Fatalf("empty table should restore the defaults, got %d types", len(c.Hostiles.Types))
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `{"hostiles":{"count":99999},"level":{"cells_wide":0},"fog":{"enabled":false}}`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Hostiles.Count != 5000 || cfg.Level.CellsWide != 1 {
		t.Fatalf("count=%d cells_wide=%d, want clamped", cfg.Hostiles.Count, cfg.Level.CellsWide)
	}
	if cfg.Fog.Enabled {
		t.Fatal("fog.enabled=false was not applied")
	}
	if cfg.Level.CellsHigh != 46 || cfg.Hostiles.Radius != 11 {
		t.Fatal("fields absent from the file should keep their defaults")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing file should error")
	}
	cfg, err := LoadConfig(writeConfig(t, `{"level":`))
	if err == nil {
		t.Fatal("bad JSON should error")
	}
	if cfg.Level.CellsWide != 56 {
		t.Fatal("a parse error should still return the defaults")
	}
	if cfg, err := LoadConfig(""); err != nil || cfg.Hostiles.Count != 100 {
		t.Fatalf("empty path: cfg.count=%d err=%v", cfg.Hostiles.Count, err)
	}
}

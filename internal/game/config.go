package game

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// LevelConfig controls dungeon generation.
type LevelConfig struct {
	CellsWide      int     `json:"cells_wide"`
	CellsHigh      int     `json:"cells_high"`
	TileSize       float64 `json:"tile_size"`        // world units per tile edge
	RoomMin        int     `json:"room_min"`         // floor on the room count
	RoomDensityDiv int     `json:"room_density_div"` // one room per this many cells
	LoopProb       float64 `json:"loop_prob"`
	DeadEndPasses  int     `json:"dead_end_passes"`
	BraidChance    float64 `json:"braid_chance"`
}

// FogConfig controls the visibility field.
type FogConfig struct {
	Enabled      bool    `json:"enabled"`
	Rays         int     `json:"rays"`
	Dist         float64 `json:"dist"`
	StepDiv      float64 `json:"step_div"` // ray step is TileSize / StepDiv
	UnseenAlpha  float64 `json:"unseen_alpha"`
	MemoryAlpha  float64 `json:"memory_alpha"`
	MemoryMode   bool    `json:"memory_mode"`
	FadeEnabled  bool    `json:"fade_enabled"`
	FadeMs       float64 `json:"fade_ms"`
	HideHostiles bool    `json:"hide_hostiles"` // fade hostiles out when their tile is not visible
}

func (c FogConfig) step(tileSize float64) float64 {
	return tileSize / c.StepDiv
}

// PlayerConfig holds player kinematics.
type PlayerConfig struct {
	Radius     float64 `json:"radius"`
	HP         float64 `json:"hp"`
	Accel      float64 `json:"accel"`
	MaxSpeed   float64 `json:"max_speed"`
	DampMoving float64 `json:"damp_moving"` // per-1/60s velocity retention with input
	DampIdle   float64 `json:"damp_idle"`
}

// CombatConfig holds the player's melee swing.
type CombatConfig struct {
	Range      float64 `json:"range"`
	Cone       float64 `json:"cone"` // half-angle in radians
	Damage     float64 `json:"damage"`
	Cooldown   float64 `json:"cooldown"`
	Window     float64 `json:"window"`
	RequireLOS bool    `json:"require_los"`
	LOSStepDiv float64 `json:"los_step_div"`
}

// HostileConfig holds population and shared hostile parameters.
type HostileConfig struct {
	Count          int           `json:"count"`
	SpawnMinDist   float64       `json:"spawn_min_dist"`
	Radius         float64       `json:"radius"`
	AttackRange    float64       `json:"attack_range"`
	AttackCooldown float64       `json:"attack_cooldown"`
	AttackWindow   float64       `json:"attack_window"`
	WanderSpeedMul float64       `json:"wander_speed_mul"`
	WanderMin      float64       `json:"wander_min"`
	WanderMax      float64       `json:"wander_max"`
	Types          []HostileType `json:"types"`
}

// SimConfig holds step-level parameters.
type SimConfig struct {
	MaxDelta      float64 `json:"max_delta"` // seconds
	ExitRadius    float64 `json:"exit_radius"`
	SpawnAttempts int     `json:"spawn_attempts"`
}

// Config is the full tunable set for a world.
type Config struct {
	Level    LevelConfig   `json:"level"`
	Fog      FogConfig     `json:"fog"`
	Player   PlayerConfig  `json:"player"`
	Combat   CombatConfig  `json:"combat"`
	Hostiles HostileConfig `json:"hostiles"`
	Sim      SimConfig     `json:"sim"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Level: LevelConfig{
			CellsWide:      56,
			CellsHigh:      46,
			TileSize:       32,
			RoomMin:        14,
			RoomDensityDiv: 70,
			LoopProb:       0.16,
			DeadEndPasses:  2,
			BraidChance:    0.45,
		},
		Fog: FogConfig{
			Enabled:      true,
			Rays:         420,
			Dist:         360,
			StepDiv:      6,
			UnseenAlpha:  0.96,
			MemoryAlpha:  0.55,
			MemoryMode:   true,
			FadeEnabled:  true,
			FadeMs:       350,
			HideHostiles: true,
		},
		Player: PlayerConfig{
			Radius:     12,
			HP:         120,
			Accel:      1560,
			MaxSpeed:   320,
			DampMoving: 0.88,
			DampIdle:   0.78,
		},
		Combat: CombatConfig{
			Range:      46,
			Cone:       0.75,
			Damage:     18,
			Cooldown:   0.30,
			Window:     0.12,
			RequireLOS: true,
			LOSStepDiv: 6,
		},
		Hostiles: HostileConfig{
			Count:          100,
			SpawnMinDist:   380,
			Radius:         11,
			AttackRange:    22,
			AttackCooldown: 0.65,
			AttackWindow:   0.12,
			WanderSpeedMul: 0.55,
			WanderMin:      1.3,
			WanderMax:      3.0,
			Types:          DefaultHostileTypes(),
		},
		Sim: SimConfig{
			MaxDelta:      0.033,
			ExitRadius:    22,
			SpawnAttempts: 6000,
		},
	}
}

// LoadConfig reads a JSON file over the defaults and clamps the result.
// An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Clamp()
	return cfg, nil
}

// Clamp enforces hard bounds in place so callers can accept user-supplied
// values without guarding every field.
func (c *Config) Clamp() {
	// --- level ---
	c.Level.CellsWide = clampInt(c.Level.CellsWide, 1, 256)
	c.Level.CellsHigh = clampInt(c.Level.CellsHigh, 1, 256)
	c.Level.TileSize = clampFloat(c.Level.TileSize, 4, 256)
	c.Level.RoomMin = clampInt(c.Level.RoomMin, 0, 1000)
	c.Level.RoomDensityDiv = clampInt(c.Level.RoomDensityDiv, 1, 100000)
	c.Level.LoopProb = clampFloat(c.Level.LoopProb, 0, 1)
	c.Level.DeadEndPasses = clampInt(c.Level.DeadEndPasses, 0, 16)
	c.Level.BraidChance = clampFloat(c.Level.BraidChance, 0, 1)

	// --- fog ---
	c.Fog.Rays = clampInt(c.Fog.Rays, 8, 4096)
	c.Fog.Dist = clampFloat(c.Fog.Dist, 0, 100000)
	c.Fog.StepDiv = clampFloat(c.Fog.StepDiv, 1, 64)
	c.Fog.UnseenAlpha = clampFloat(c.Fog.UnseenAlpha, 0, 1)
	c.Fog.MemoryAlpha = clampFloat(c.Fog.MemoryAlpha, 0, 1)
	c.Fog.FadeMs = clampFloat(c.Fog.FadeMs, 0, 60000)

	// --- player ---
	c.Player.Radius = clampFloat(c.Player.Radius, 1, 128)
	c.Player.HP = clampFloat(c.Player.HP, 1, 1e6)
	c.Player.Accel = clampFloat(c.Player.Accel, 0, 1e5)
	c.Player.MaxSpeed = clampFloat(c.Player.MaxSpeed, 0, 1e4)
	c.Player.DampMoving = clampFloat(c.Player.DampMoving, 0, 1)
	c.Player.DampIdle = clampFloat(c.Player.DampIdle, 0, 1)

	// --- combat ---
	c.Combat.Range = clampFloat(c.Combat.Range, 0, 1000)
	c.Combat.Cone = clampFloat(c.Combat.Cone, 0, math.Pi)
	c.Combat.Damage = clampFloat(c.Combat.Damage, 0, 1e6)
	c.Combat.Cooldown = clampFloat(c.Combat.Cooldown, 0, 60)
	c.Combat.Window = clampFloat(c.Combat.Window, 0, 60)
	c.Combat.LOSStepDiv = clampFloat(c.Combat.LOSStepDiv, 1, 64)

	// --- hostiles ---
	c.Hostiles.Count = clampInt(c.Hostiles.Count, 0, 5000)
	c.Hostiles.SpawnMinDist = clampFloat(c.Hostiles.SpawnMinDist, 0, 1e5)
	c.Hostiles.Radius = clampFloat(c.Hostiles.Radius, 1, 128)
	c.Hostiles.AttackRange = clampFloat(c.Hostiles.AttackRange, 0, 1000)
	c.Hostiles.AttackCooldown = clampFloat(c.Hostiles.AttackCooldown, 0, 60)
	c.Hostiles.AttackWindow = clampFloat(c.Hostiles.AttackWindow, 0, 60)
	c.Hostiles.WanderSpeedMul = clampFloat(c.Hostiles.WanderSpeedMul, 0, 4)
	c.Hostiles.WanderMin = clampFloat(c.Hostiles.WanderMin, 0.05, 60)
	c.Hostiles.WanderMax = clampFloat(c.Hostiles.WanderMax, c.Hostiles.WanderMin, 120)
	c.Hostiles.Types = clampHostileTypes(c.Hostiles.Types)

	// --- sim ---
	c.Sim.MaxDelta = clampFloat(c.Sim.MaxDelta, 0.001, 1)
	c.Sim.ExitRadius = clampFloat(c.Sim.ExitRadius, 0, 1e5)
	c.Sim.SpawnAttempts = clampInt(c.Sim.SpawnAttempts, 1, 1000000)
}

func clampHostileTypes(types []HostileType) []HostileType {
	if len(types) == 0 {
		return DefaultHostileTypes()
	}
	total := 0.0
	for i := range types {
		t := &types[i]
		if t.Name == "" {
			t.Name = fmt.Sprintf("type%d", i)
		}
		t.HP = clampFloat(t.HP, 1, 1e6)
		t.Damage = clampFloat(t.Damage, 0, 1e6)
		t.Speed = clampFloat(t.Speed, 0, 1e4)
		t.Aggro = clampFloat(t.Aggro, 0, 1e5)
		t.Weight = clampFloat(t.Weight, 0, 1e6)
		total += t.Weight
	}
	if total == 0 {
		for i := range types {
			types[i].Weight = 1
		}
	}
	return types
}

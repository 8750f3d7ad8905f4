package game

// AgentView is the read-only per-agent state handed to renderers.
type AgentView struct {
	ID           int        `json:"id"`
	Kind         AgentKind  `json:"kind"`
	Type         string     `json:"type,omitempty"`
	X            float64    `json:"x"`
	Y            float64    `json:"y"`
	Radius       float64    `json:"r"`
	Facing       float64    `json:"facing"`
	State        AgentState `json:"state"`
	HealthRatio  float64    `json:"health"`
	AttackActive bool       `json:"attacking"`
	Alpha        float64    `json:"alpha"` // hostile render alpha under fog
}

// Frame is everything a renderer or camera needs after a tick, apart
// from the grid and per-tile overlay which are read from the world.
type Frame struct {
	Tick        int         `json:"tick"`
	PlayerX     float64     `json:"player_x"`
	PlayerY     float64     `json:"player_y"`
	AimX        float64     `json:"aim_x"`
	AimY        float64     `json:"aim_y"`
	ExitCol     int         `json:"exit_col"`
	ExitRow     int         `json:"exit_row"`
	FogEnabled  bool        `json:"fog"`
	GameOver    bool        `json:"game_over"`
	ExitReached bool        `json:"exit_reached"`
	Agents      []AgentView `json:"agents"`
}

// Frame builds the current read model.
func (w *World) Frame() Frame {
	f := Frame{
		Tick:        w.tick,
		PlayerX:     w.player.X,
		PlayerY:     w.player.Y,
		AimX:        w.aimX,
		AimY:        w.aimY,
		ExitCol:     w.exitCol,
		ExitRow:     w.exitRow,
		FogEnabled:  w.fogEnabled,
		GameOver:    w.gameOver,
		ExitReached: w.exitReached,
		Agents:      make([]AgentView, len(w.agents)),
	}
	for i, a := range w.agents {
		v := a.View()
		v.Alpha = w.HostileAlpha(a.ID)
		f.Agents[i] = v
	}
	return f
}

// OverlayAlpha returns the fog overlay alpha a renderer should draw over
// (col,row). It is zero everywhere once fog is off.
func (w *World) OverlayAlpha(col, row int) float64 {
	if !w.fogEnabled {
		return 0
	}
	return w.fog.Alpha(col, row)
}

// OverlayBytes writes every tile's overlay alpha, quantised to 0..255 and
// row-major, into dst (grown as needed) and returns it.
func (w *World) OverlayBytes(dst []byte) []byte {
	n := w.grid.Cols * w.grid.Rows
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	if !w.fogEnabled {
		for i := range dst {
			dst[i] = 0
		}
		return dst
	}
	for i, a := range w.fog.alpha {
		dst[i] = byte(clampFloat(a, 0, 1)*255 + 0.5)
	}
	return dst
}

// --- Persistence shape ---

// AgentSnapshot is one persisted agent.
type AgentSnapshot struct {
	Kind AgentKind `json:"kind"`
	Type string    `json:"type,omitempty"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
	HP   float64   `json:"hp"`
}

// SavedState is what a persistence collaborator stores and hands back at
// construction. Rows uses the TextRows encoding.
type SavedState struct {
	TileSize float64         `json:"tile_size"`
	Rows     []string        `json:"rows"`
	Agents   []AgentSnapshot `json:"agents,omitempty"`
}

// Save captures the grid and every agent.
func (w *World) Save() SavedState {
	s := SavedState{
		TileSize: w.grid.TileSize,
		Rows:     w.grid.TextRows(),
		Agents:   make([]AgentSnapshot, 0, len(w.agents)),
	}
	for _, a := range w.agents {
		snap := AgentSnapshot{Kind: a.Kind, X: a.X, Y: a.Y, HP: a.HP}
		if a.Kind == AgentHostile {
			snap.Type = a.Type.Name
		}
		s.Agents = append(s.Agents, snap)
	}
	return s
}

// usableGrid decodes the saved grid and checks it can host a level: at
// least 3x3, walled border, some floor.
func (s *SavedState) usableGrid(defaultTileSize float64) (*TileGrid, bool) {
	if s == nil || len(s.Rows) == 0 {
		return nil, false
	}
	ts := s.TileSize
	if ts <= 0 {
		ts = defaultTileSize
	}
	g, err := ParseTileGrid(s.Rows, ts)
	if err != nil {
		return nil, false
	}
	if g.Cols < 3 || g.Rows < 3 || !g.BorderIsWall() || g.FloorCount() == 0 {
		return nil, false
	}
	return g, true
}

package netfeed

import (
	"encoding/json"

	"github.com/Garsondee/Dungeon-Sense/internal/game"
)

// Message types on the wire.
const (
	MsgHello = "hello" // server -> client, once on connect and again on promotion
	MsgLevel = "level" // server -> client, once on connect
	MsgFrame = "frame" // server -> client, every tick
	MsgInput = "input" // client -> server, controller only
)

// Envelope wraps every message.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// HelloPayload tells a client who it is and whether it drives the player.
type HelloPayload struct {
	SessionID  string `json:"session_id"`
	Controller bool   `json:"controller"`
}

// LevelPayload is the static level a client renders under each frame.
type LevelPayload struct {
	Cols     int      `json:"cols"`
	Rows     int      `json:"rows"`
	TileSize float64  `json:"tile_size"`
	Grid     []string `json:"grid"` // '#' wall, '.' floor
	ExitCol  int      `json:"exit_col"`
	ExitRow  int      `json:"exit_row"`
}

// FramePayload is one tick of the world. Fog holds one overlay alpha byte
// per tile, row-major; it is base64 in JSON.
type FramePayload struct {
	Frame game.Frame `json:"frame"`
	Fog   []byte     `json:"fog"`
}

// InputPayload is the controller's held input. It stays in effect until
// the next input message.
type InputPayload struct {
	MoveX  float64 `json:"move_x"`
	MoveY  float64 `json:"move_y"`
	AimX   float64 `json:"aim_x"`
	AimY   float64 `json:"aim_y"`
	Attack bool    `json:"attack"`
}

func (p InputPayload) toInput() game.Input {
	return game.Input{MoveX: p.MoveX, MoveY: p.MoveY, AimX: p.AimX, AimY: p.AimY, Attack: p.Attack}
}

func encode(typ string, v any) ([]byte, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: typ, Payload: payload})
}

func levelPayload(w *game.World) LevelPayload {
	g := w.Grid()
	ec, er := w.Exit()
	return LevelPayload{
		Cols:     g.Cols,
		Rows:     g.Rows,
		TileSize: g.TileSize,
		Grid:     g.TextRows(),
		ExitCol:  ec,
		ExitRow:  er,
	}
}

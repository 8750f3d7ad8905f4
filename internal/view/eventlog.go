package view

import (
	"fmt"
	"image/color"

	"github.com/Garsondee/Dungeon-Sense/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	logPanelWidth = 300
	logMaxEntries = 80
	logLineHeight = 15
	logRecent     = 3 // newest entries drawn highlighted
)

var (
	colLogCombat = color.RGBA{R: 220, G: 180, B: 90, A: 255}  // damage dealt
	colLogHurt   = color.RGBA{R: 230, G: 80, B: 70, A: 255}   // damage taken
	colLogKill   = color.RGBA{R: 150, G: 220, B: 120, A: 255} // kills
	colLogSystem = color.RGBA{R: 140, G: 160, B: 200, A: 255} // level, save, pause
)

// LogEntry is a single line in the event log.
type LogEntry struct {
	Tick    int
	Label   string // e.g. "P", "H7", "--"
	Message string
	Color   color.RGBA
}

// EventLog is a ring buffer of recent happenings rendered beside the map.
type EventLog struct {
	entries []LogEntry
	head    int
	count   int
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{entries: make([]LogEntry, logMaxEntries)}
}

// Add appends an entry, overwriting the oldest once full.
func (el *EventLog) Add(tick int, label, msg string, col color.RGBA) {
	el.entries[el.head] = LogEntry{Tick: tick, Label: label, Message: msg, Color: col}
	el.head = (el.head + 1) % logMaxEntries
	if el.count < logMaxEntries {
		el.count++
	}
}

// AddEvents turns drained world events into log lines. Tile reveals and
// behaviour flips are too frequent to be useful here and are skipped.
func (el *EventLog) AddEvents(w *game.World, events []game.Event) {
	for _, e := range events {
		target := labelOf(w, e.AgentID)
		source := labelOf(w, e.SourceID)
		switch e.Kind {
		case game.EventHostileDamaged:
			el.Add(e.Tick, target, fmt.Sprintf("hit for %.0f", e.Amount), colLogCombat)
		case game.EventHostileKilled:
			name := ""
			if a := w.Agent(e.AgentID); a != nil {
				name = a.Type.Name
			}
			el.Add(e.Tick, target, fmt.Sprintf("%s slain by %s", name, source), colLogKill)
		case game.EventPlayerDamaged:
			el.Add(e.Tick, target, fmt.Sprintf("took %.0f from %s", e.Amount, source), colLogHurt)
		case game.EventPlayerDied:
			el.Add(e.Tick, target, "died. R for a new level", colLogHurt)
		case game.EventMapRevealed:
			el.Add(e.Tick, "--", "exit reached, map revealed", colLogSystem)
		}
	}
}

func labelOf(w *game.World, id int) string {
	if a := w.Agent(id); a != nil {
		return a.Label()
	}
	return "--"
}

// Recent returns entries in chronological order (oldest first).
func (el *EventLog) Recent() []LogEntry {
	out := make([]LogEntry, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + logMaxEntries) % logMaxEntries
		out[i] = el.entries[idx]
	}
	return out
}

// Draw renders the log panel at panelX, newest entries at the bottom.
func (el *EventLog) Draw(screen *ebiten.Image, face text.Face, panelX, panelH int) {
	px := float32(panelX)
	vector.DrawFilledRect(screen, px, 0, logPanelWidth, float32(panelH), color.RGBA{R: 12, G: 10, B: 10, A: 248}, false)
	vector.StrokeLine(screen, px, 0, px, float32(panelH), 1.0, color.RGBA{R: 70, G: 55, B: 50, A: 255}, false)
	vector.DrawFilledRect(screen, px, 0, logPanelWidth, 18, color.RGBA{R: 30, G: 22, B: 20, A: 255}, false)
	drawText(screen, face, "EVENT LOG", panelX+8, 3, colLogSystem)
	vector.StrokeLine(screen, px, 18, px+logPanelWidth, 18, 1.0, color.RGBA{R: 80, G: 60, B: 50, A: 200}, false)

	entries := el.Recent()
	maxVisible := (panelH - 26) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}

	y := 22
	for i, e := range entries {
		col := e.Color
		if i >= len(entries)-logRecent {
			vector.DrawFilledRect(screen, px+2, float32(y), logPanelWidth-4, logLineHeight, color.RGBA{R: 40, G: 30, B: 28, A: 160}, false)
		} else {
			col.A = 150
		}
		vector.DrawFilledRect(screen, px+5, float32(y+4), 3, 6, e.Color, false)
		drawText(screen, face, fmt.Sprintf("%5d %-4s %s", e.Tick, e.Label, e.Message), panelX+12, y, col)
		y += logLineHeight
	}
}

func drawText(dst *ebiten.Image, face text.Face, s string, x, y int, col color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(col)
	text.Draw(dst, s, face, op)
}

// Package netfeed streams a running world to websocket clients. The hub
// goroutine owns the world: it steps it on a ticker, applies the
// controlling session's input and broadcasts a frame per tick.
package netfeed

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Garsondee/Dungeon-Sense/internal/game"
	"github.com/Garsondee/Dungeon-Sense/internal/logger"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

type clientInput struct {
	from  *Client
	input game.Input
}

// Status is a point-in-time summary readable from any goroutine.
type Status struct {
	Tick         int    `json:"tick"`
	Clients      int    `json:"clients"`
	Controller   string `json:"controller,omitempty"`
	LiveHostiles int    `json:"live_hostiles"`
	GameOver     bool   `json:"game_over"`
	ExitReached  bool   `json:"exit_reached"`
}

// Hub fans one world out to its clients.
type Hub struct {
	world    *game.World
	interval time.Duration

	register   chan *Client
	unregister chan *Client
	inputs     chan clientInput
	done       chan struct{}

	mu         deadlock.RWMutex
	clients    map[*Client]bool
	order      []*Client // join order, for controller promotion
	controller *Client
	status     Status

	// Owned by Run.
	input game.Input
	fog   []byte

	log *logrus.Entry
}

// NewHub creates a hub that steps w every interval once Run is called.
func NewHub(w *game.World, interval time.Duration) *Hub {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Hub{
		world:      w,
		interval:   interval,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inputs:     make(chan clientInput, 64),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		log:        logger.Component("netfeed"),
	}
}

// Handler serves the websocket endpoint at /ws and a JSON status at /status.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ServeWs(h, w, r)
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(h.Status())
	})
	return mux
}

// Status returns the latest summary.
func (h *Hub) Status() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

// Run steps the world and serves clients until ctx is cancelled. It must
// be called exactly once.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	defer h.shutdown()

	dt := h.interval.Seconds()
	h.log.WithField("interval", h.interval).Info("feed running")
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.addClient(c)
		case c := <-h.unregister:
			h.removeClient(c)
		case in := <-h.inputs:
			if in.from == h.controllerClient() {
				h.input = in.input
			}
		case <-ticker.C:
			h.tick(dt)
		}
	}
}

func (h *Hub) controllerClient() *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.controller
}

// addClient greets c and sends the level before it joins the broadcast
// set, so its first frame always follows the level.
func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	h.order = append(h.order, c)
	isController := h.controller == nil
	if isController {
		h.controller = c
		h.input = game.Input{}
	}
	h.refreshStatusLocked()
	h.mu.Unlock()

	h.sendTo(c, MsgHello, HelloPayload{SessionID: c.SessionID, Controller: isController})
	h.sendTo(c, MsgLevel, levelPayload(h.world))
	h.log.WithFields(logrus.Fields{"session": c.SessionID, "controller": isController}).Info("client joined")
}

// removeClient drops c and, if it was driving, hands control to the
// longest-connected remaining session.
func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	if !h.clients[c] {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	for i, o := range h.order {
		if o == c {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
	var promoted *Client
	if h.controller == c {
		h.controller = nil
		h.input = game.Input{}
		if len(h.order) > 0 {
			promoted = h.order[0]
			h.controller = promoted
		}
	}
	h.refreshStatusLocked()
	h.mu.Unlock()

	h.log.WithField("session", c.SessionID).Info("client left")
	if promoted != nil {
		h.sendTo(promoted, MsgHello, HelloPayload{SessionID: promoted.SessionID, Controller: true})
		h.log.WithField("session", promoted.SessionID).Info("control handed over")
	}
}

func (h *Hub) tick(dt float64) {
	h.world.Step(dt, h.input)
	for _, e := range h.world.Events().Drain() {
		h.logEvent(e)
	}
	h.fog = h.world.OverlayBytes(h.fog)
	msg, err := encode(MsgFrame, FramePayload{Frame: h.world.Frame(), Fog: h.fog})
	if err != nil {
		h.log.WithError(err).Error("encode frame")
		return
	}

	h.mu.Lock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// Slow reader; it gets the next frame instead.
		}
	}
	h.refreshStatusLocked()
	h.mu.Unlock()
}

func (h *Hub) logEvent(e game.Event) {
	switch e.Kind {
	case game.EventHostileKilled, game.EventPlayerDied, game.EventMapRevealed:
		h.log.WithFields(logrus.Fields{"tick": e.Tick, "agent": e.AgentID, "by": e.SourceID}).Info(e.Kind.String())
	}
}

func (h *Hub) refreshStatusLocked() {
	st := Status{
		Tick:         h.world.Tick(),
		Clients:      len(h.clients),
		LiveHostiles: h.world.LiveHostiles(),
		GameOver:     h.world.GameOver(),
		ExitReached:  h.world.ExitReached(),
	}
	if h.controller != nil {
		st.Controller = h.controller.SessionID
	}
	h.status = st
}

func (h *Hub) sendTo(c *Client, typ string, v any) {
	msg, err := encode(typ, v)
	if err != nil {
		h.log.WithError(err).WithField("type", typ).Error("encode message")
		return
	}
	select {
	case c.send <- msg:
	default:
		h.log.WithField("session", c.SessionID).Warn("send buffer full, dropping message")
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
	}
	h.clients = map[*Client]bool{}
	h.order = nil
	h.controller = nil
	h.log.Info("feed stopped")
}

package game

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 5 * time.Second

// observerHub keeps the websocket connections watching each game and pushes
// every new game state to them.
type observerHub struct {
	mu    sync.Mutex
	conns map[string]map[*observer]struct{}
	log   *zap.SugaredLogger
}

// observer serializes writes to one connection.
type observer struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func newObserverHub(log *zap.SugaredLogger) *observerHub {
	return &observerHub{
		conns: make(map[string]map[*observer]struct{}),
		log:   log,
	}
}

func (h *observerHub) add(gameID string, conn *websocket.Conn) *observer {
	obs := &observer{conn: conn}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[gameID] == nil {
		h.conns[gameID] = make(map[*observer]struct{})
	}
	h.conns[gameID][obs] = struct{}{}
	return obs
}

func (h *observerHub) remove(gameID string, obs *observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.conns[gameID]
	if set == nil {
		return
	}
	delete(set, obs)
	if len(set) == 0 {
		delete(h.conns, gameID)
	}
}

func (h *observerHub) count(gameID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[gameID])
}

// broadcast sends v to everyone watching gameID. Connections that fail to
// take the message are closed and dropped.
func (h *observerHub) broadcast(gameID string, v any) {
	h.mu.Lock()
	targets := make([]*observer, 0, len(h.conns[gameID]))
	for obs := range h.conns[gameID] {
		targets = append(targets, obs)
	}
	h.mu.Unlock()

	for _, obs := range targets {
		if err := obs.send(v); err != nil {
			h.log.Warnf("dropping observer of game %s: %v", gameID, err)
			h.remove(gameID, obs)
			_ = obs.conn.Close()
		}
	}
}

func (o *observer) send(v any) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	_ = o.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return o.conn.WriteJSON(v)
}

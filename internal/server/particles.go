package server

import (
	"encoding/binary"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/gorilla/websocket"
)

// broadcastInterval paces the particle feed at roughly 30 FPS. The
// renderer interpolates between frames, so this does not need to match
// the simulation rate.
const broadcastInterval = 33 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ParticlesHandler broadcasts engine frames to WebSocket clients. Each
// frame is two messages: a binary buffer of little-endian float32
// positions followed by colors, and a JSON status message with the mode
// and per-hand state.
type ParticlesHandler struct {
	engine  *engine.Engine
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// particleStatus is the JSON side channel sent alongside each binary frame.
type particleStatus struct {
	Mode      string            `json:"mode"`
	Left      engine.HandStatus `json:"left"`
	Right     engine.HandStatus `json:"right"`
	Particles int               `json:"particles"`
	Timestamp int64             `json:"timestamp"`
}

// NewParticlesHandler creates a ParticlesHandler and starts its broadcast
// loop.
func NewParticlesHandler(e *engine.Engine) *ParticlesHandler {
	h := &ParticlesHandler{
		engine:  e,
		clients: make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *ParticlesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep the connection registered until the client goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast pushes the latest engine frame to every connected client.
func (h *ParticlesHandler) broadcast() {
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()

	for range ticker.C {
		h.mu.RLock()
		idle := len(h.clients) == 0
		h.mu.RUnlock()
		if idle {
			continue
		}

		frame := h.engine.Frame()
		buf := encodeFrame(frame)
		status, _ := json.Marshal(particleStatus{
			Mode:      frame.Mode,
			Left:      frame.Left,
			Right:     frame.Right,
			Particles: len(frame.Positions) / 3,
			Timestamp: time.Now().UnixMilli(),
		})

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.BinaryMessage, buf)
			conn.WriteMessage(websocket.TextMessage, status)
		}
		h.mu.RUnlock()
	}
}

// encodeFrame packs positions then colors as little-endian float32s.
func encodeFrame(frame engine.Frame) []byte {
	buf := make([]byte, 4*(len(frame.Positions)+len(frame.Colors)))
	off := 0
	for _, v := range frame.Positions {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}
	for _, v := range frame.Colors {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}
	return buf
}

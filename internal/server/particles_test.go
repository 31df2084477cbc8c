package server

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/gorilla/websocket"
)

func TestEncodeFrame(t *testing.T) {
	frame := engine.Frame{
		Positions: []float32{1.5, -2.0, 0},
		Colors:    []float32{0.25, 0.5, 1},
	}

	buf := encodeFrame(frame)
	if len(buf) != 24 {
		t.Fatalf("expected 24 bytes, got %d", len(buf))
	}

	got := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:]))
	if got != 1.5 {
		t.Errorf("first position = %f, want 1.5", got)
	}
	got = math.Float32frombits(binary.LittleEndian.Uint32(buf[12:]))
	if got != 0.25 {
		t.Errorf("first color = %f, want 0.25", got)
	}
}

func TestParticlesHandler_Broadcast(t *testing.T) {
	e := engine.New(engine.Config{ParticleCount: 10})
	srv := New(Config{Engine: e})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/particles"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var sawBinary, sawStatus bool
	for !sawBinary || !sawStatus {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("ReadMessage error = %v", err)
		}

		switch msgType {
		case websocket.BinaryMessage:
			// Positions plus colors, 3 float32s each per particle.
			if len(data) != 10*3*4*2 {
				t.Fatalf("binary frame length = %d, want %d", len(data), 10*3*4*2)
			}
			sawBinary = true
		case websocket.TextMessage:
			var status particleStatus
			if err := json.Unmarshal(data, &status); err != nil {
				t.Fatalf("status unmarshal error = %v", err)
			}
			if status.Mode != "idle" {
				t.Errorf("status mode = %q, want idle", status.Mode)
			}
			if status.Particles != 10 {
				t.Errorf("status particles = %d, want 10", status.Particles)
			}
			sawStatus = true
		}
	}
}

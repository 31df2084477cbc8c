// Package engine owns all mutable simulation state of the particle cloud:
// per-hand filter and debounce state, the mode machine, transitions, and
// the particle buffers themselves. Hand frames arrive asynchronously via
// SubmitHands; everything else is mutated only inside Tick, which the host
// drives once per render frame.
package engine

import (
	"math/rand"
	"sync"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/filter"
	"github.com/ayusman/mudra/internal/gesture"
)

// defaultTickSeconds stands in for a non-positive dt.
const defaultTickSeconds = 1.0 / 60

// Config holds engine construction options.
type Config struct {
	// ParticleCount is the fixed cloud size; 0 uses DefaultParticleCount.
	ParticleCount int
	// DebounceFrames is the gesture debounce run length; 0 uses the
	// gesture package default.
	DebounceFrames int
}

// handState is everything the engine remembers about one physical hand.
// All of it is reset together when the hand drops out of tracking.
type handState struct {
	present   bool
	conf      float64
	count     int
	filter    *filter.HandFilter
	debounce  *gesture.Debouncer
	smoothed  detector.HandLandmarks
	anchorX   float64
	anchorY   float64
	anchorSet bool
}

// TrailPoint is one sample of the drawing trail, timestamped on the engine
// clock.
type TrailPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	T float64 `json:"t"`
}

// HandStatus is the per-hand summary exposed to the renderer.
type HandStatus struct {
	Present    bool    `json:"present"`
	Confidence float64 `json:"confidence"`
	Count      int     `json:"count"`
}

// Frame is a renderer-ready snapshot: flat float32 buffers (stride 3,
// index-aligned) plus display status. The slices are replaced, never
// mutated, after publication.
type Frame struct {
	Positions []float32
	Colors    []float32
	Mode      string
	Left      HandStatus
	Right     HandStatus
}

// Engine drives the whole pipeline. One Tick per render frame; no other
// goroutine touches simulation state.
type Engine struct {
	particles *ParticleSet
	elapsed   float64

	left  handState
	right handState

	mode             Mode
	lastLeft         int
	beforeBasketball Mode
	beforeNebula     Mode

	trans transition
	pulse pulse

	// pathMu guards the trail and the published clock, the only
	// simulation state touched from outside the tick goroutine (sketch
	// save and load go through Path and SetPath).
	path       []TrailPoint
	lastPathAt float64
	clock      float64
	pathMu     sync.Mutex

	ball         basketball
	catchOffsets []float64

	rng *rand.Rand

	// inbox holds the most recently delivered detection result. No
	// queue: a new delivery overwrites an unconsumed one.
	inboxMu    sync.Mutex
	inbox      []detector.HandLandmarks
	inboxFresh bool

	// frame is the latest published snapshot.
	frameMu sync.RWMutex
	frame   Frame
}

// New creates an Engine with its particle buffers allocated up front.
func New(cfg Config) *Engine {
	count := cfg.ParticleCount
	if count <= 0 {
		count = DefaultParticleCount
	}

	e := &Engine{
		particles: newParticleSet(count),
		mode:      ModeIdle,
		lastLeft:  gesture.Unknown,
		rng:       rand.New(rand.NewSource(particleSeed + 1)),
	}
	for _, h := range []*handState{&e.left, &e.right} {
		h.filter = filter.NewHandFilter()
		h.debounce = gesture.NewDebouncer(cfg.DebounceFrames)
		h.count = gesture.Unknown
	}

	e.publishFrame()
	return e
}

// SubmitHands delivers the latest detection result. An empty or nil slice
// is an explicit "no hands" notification and tears down per-hand state on
// the next tick. Safe to call from any goroutine.
func (e *Engine) SubmitHands(hands []detector.HandLandmarks) {
	cp := make([]detector.HandLandmarks, len(hands))
	copy(cp, hands)

	e.inboxMu.Lock()
	e.inbox = cp
	e.inboxFresh = true
	e.inboxMu.Unlock()
}

// Tick advances the simulation by dt seconds: consume the latest hand
// frame, classify, resolve the mode, run the transition and physics, and
// publish a snapshot for the renderer.
func (e *Engine) Tick(dt float64) {
	if dt <= 0 {
		dt = defaultTickSeconds
	}
	e.elapsed += dt

	// Publish the clock for SetPath and Elapsed, which run on other
	// goroutines and must not read elapsed directly.
	e.pathMu.Lock()
	e.clock = e.elapsed
	e.pathMu.Unlock()

	if hands, fresh := e.takeInbox(); fresh {
		e.ingest(hands)
	}

	e.resolveMode()
	e.tickTransition()
	e.tickPhysics()
	e.publishFrame()
}

// Elapsed returns the engine clock in seconds as of the last completed
// tick. Safe to call from any goroutine.
func (e *Engine) Elapsed() float64 {
	e.pathMu.Lock()
	defer e.pathMu.Unlock()
	return e.clock
}

// Mode returns the current operating mode.
func (e *Engine) Mode() Mode {
	return e.mode
}

// ParticleCount returns the fixed cloud size.
func (e *Engine) ParticleCount() int {
	return e.particles.count
}

func (e *Engine) takeInbox() ([]detector.HandLandmarks, bool) {
	e.inboxMu.Lock()
	defer e.inboxMu.Unlock()
	if !e.inboxFresh {
		return nil, false
	}
	e.inboxFresh = false
	return e.inbox, true
}

// ingest splits a detection result by handedness and updates both hand
// states. At most one hand per side is used; extras are ignored.
func (e *Engine) ingest(hands []detector.HandLandmarks) {
	var left, right *detector.HandLandmarks
	for i := range hands {
		switch hands[i].Handedness {
		case detector.HandednessLeft:
			if left == nil {
				left = &hands[i]
			}
		case detector.HandednessRight:
			if right == nil {
				right = &hands[i]
			}
		}
	}
	e.updateHand(&e.left, left, false)
	e.updateHand(&e.right, right, true)
}

// updateHand feeds one hand sample (or its absence) through the filter,
// classifier and debouncer, and maintains the anchor point.
//
// On absence everything is torn down at once: filter, debounce state,
// anchor, and for the right hand the drawing trail. The next real sample
// is then a first observation with no stale state to blend against.
func (e *Engine) updateHand(hs *handState, h *detector.HandLandmarks, isRight bool) {
	if h == nil {
		if hs.present {
			hs.filter.Reset()
			hs.debounce.Reset()
			hs.present = false
			hs.conf = 0
			hs.count = gesture.Unknown
			hs.anchorSet = false
			if isRight {
				e.clearPath()
			}
		}
		return
	}

	hs.present = true
	hs.conf = h.Score
	hs.smoothed = hs.filter.Apply(*h, e.elapsed)
	hs.count = hs.debounce.Update(gesture.Count(&hs.smoothed))

	// Anchor: palm center for the left hand, index fingertip for the
	// right, eased coarsely from the raw landmark.
	var lm detector.Point3D
	if isRight {
		lm = h.Points[detector.IndexTip]
	} else {
		lm = h.PalmCenter()
	}
	wx := (lm.X - 0.5) * worldWidth
	wy := (0.5 - lm.Y) * worldHeight
	if !hs.anchorSet {
		hs.anchorX, hs.anchorY = wx, wy
		hs.anchorSet = true
	} else {
		hs.anchorX += (wx - hs.anchorX) * anchorEase
		hs.anchorY += (wy - hs.anchorY) * anchorEase
	}
}

// appendPath pushes one trail point, dropping the oldest once the buffer
// is full.
func (e *Engine) appendPath(x, y float64) {
	e.pathMu.Lock()
	defer e.pathMu.Unlock()

	if len(e.path) >= pathCapacity {
		copy(e.path, e.path[1:])
		e.path = e.path[:pathCapacity-1]
	}
	e.path = append(e.path, TrailPoint{X: x, Y: y, T: e.elapsed})
	e.lastPathAt = e.elapsed
}

func (e *Engine) clearPath() {
	e.pathMu.Lock()
	e.path = e.path[:0]
	e.pathMu.Unlock()
}

// Path returns a copy of the current drawing trail.
func (e *Engine) Path() []TrailPoint {
	e.pathMu.Lock()
	defer e.pathMu.Unlock()
	out := make([]TrailPoint, len(e.path))
	copy(out, e.path)
	return out
}

// SetPath replaces the drawing trail, e.g. when restoring a saved sketch.
// The trail is trimmed to capacity and its idle clock restarts now.
func (e *Engine) SetPath(points []TrailPoint) {
	if len(points) > pathCapacity {
		points = points[len(points)-pathCapacity:]
	}
	e.pathMu.Lock()
	e.path = append(e.path[:0], points...)
	e.lastPathAt = e.clock
	e.pathMu.Unlock()
}

// publishFrame snapshots positions, colors and status for the renderer.
// Fresh slices every time so a reader never observes a partial write.
func (e *Engine) publishFrame() {
	p := e.particles
	pos := make([]float32, len(p.pos))
	col := make([]float32, len(p.col))
	for i := range p.pos {
		pos[i] = float32(p.pos[i])
		col[i] = float32(p.col[i])
	}

	f := Frame{
		Positions: pos,
		Colors:    col,
		Mode:      e.mode.String(),
		Left: HandStatus{
			Present:    e.left.present,
			Confidence: e.left.conf,
			Count:      e.left.count,
		},
		Right: HandStatus{
			Present:    e.right.present,
			Confidence: e.right.conf,
			Count:      e.right.count,
		},
	}

	e.frameMu.Lock()
	e.frame = f
	e.frameMu.Unlock()
}

// Frame returns the latest published snapshot. Safe to call from any
// goroutine; the returned slices must be treated as read-only.
func (e *Engine) Frame() Frame {
	e.frameMu.RLock()
	defer e.frameMu.RUnlock()
	return e.frame
}

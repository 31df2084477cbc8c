package engine

import (
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/shape"
)

// Mode is the operating mode of the cloud.
type Mode int

const (
	ModeIdle Mode = iota
	ModeDrawing
	ModeHello
	ModeAruka
	ModeLissajous
	ModeKoch
	ModeCatch
	ModeNebula
	ModeBasketball
)

var modeNames = map[Mode]string{
	ModeIdle:       "idle",
	ModeDrawing:    "drawing",
	ModeHello:      "hello",
	ModeAruka:      "aruka",
	ModeLissajous:  "lissajous",
	ModeKoch:       "koch",
	ModeCatch:      "catch",
	ModeNebula:     "nebula",
	ModeBasketball: "basketball",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// Shape sampling parameters for mode-entry clouds.
const (
	lissajousSamples = 1200
	kochDepth        = 4
	kochSamples      = 1500
)

// Fixed mode-entry colors.
var (
	helloColor = [3]float64{1.0, 1.0, 1.0}
	arukaColor = [3]float64{1.0, 0.62, 0.26}
	kochColor  = [3]float64{0.62, 0.84, 1.0}
)

// resolveMode maps the current stable counts to an operating mode.
// Priority: both hands open (basketball) beats the left-hand table, which
// beats the right-hand nebula trigger. The left-hand table is edge
// triggered: it only fires when the stable left count changes, so holding
// a pose never re-runs shape generation.
func (e *Engine) resolveMode() {
	leftCount := gesture.Unknown
	if e.left.present {
		leftCount = e.left.count
	}
	rightCount := gesture.Unknown
	if e.right.present {
		rightCount = e.right.count
	}

	if leftCount == 5 && rightCount == 5 {
		if e.mode != ModeBasketball {
			e.beforeBasketball = e.mode
			e.mode = ModeBasketball
		}
		e.lastLeft = leftCount
		return
	}
	if e.mode == ModeBasketball {
		// Compound released: fall back to whatever was active before.
		e.mode = e.beforeBasketball
	}

	if leftCount != gesture.Unknown && leftCount != e.lastLeft {
		e.enterLeftMode(leftCount)
	}
	e.lastLeft = leftCount

	if rightCount == 5 {
		if e.mode != ModeNebula {
			e.beforeNebula = e.mode
			e.enterNebula()
		}
	} else if e.mode == ModeNebula {
		e.mode = e.beforeNebula
	}
}

// enterLeftMode applies the left-hand count table. Shape modes issue
// exactly one generator call and one transition request here, on entry.
func (e *Engine) enterLeftMode(count int) {
	switch count {
	case 0:
		e.mode = ModeDrawing
		e.clearPath()
	case 1:
		e.mode = ModeHello
		e.trans.request(shape.TextPoints("Hello"), &helloColor)
	case 2:
		e.mode = ModeAruka
		e.trans.request(shape.TextPoints("Aruka"), &arukaColor)
	case 3:
		e.mode = ModeLissajous
		e.trans.request(shape.Lissajous(lissajousSamples), nil)
	case 4:
		e.mode = ModeKoch
		e.trans.request(shape.KochSnowflake(kochDepth, kochSamples), &kochColor)
	case 5:
		e.mode = ModeCatch
	}
}

// enterNebula scatters every particle target to a random 3D position once,
// on entry. A pending shape morph is cancelled because the scatter replaces
// its targets wholesale.
func (e *Engine) enterNebula() {
	e.mode = ModeNebula
	e.trans.active = false
	e.trans.cloud = nil
	e.trans.fixed = nil

	p := e.particles
	for i := 0; i < p.count; i++ {
		j := 3 * i
		p.tgt[j] = (e.rng.Float64()*2 - 1) * scatterRadius
		p.tgt[j+1] = (e.rng.Float64()*2 - 1) * scatterRadius
		p.tgt[j+2] = (e.rng.Float64()*2 - 1) * scatterRadius
	}
}

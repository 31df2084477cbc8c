package engine

import (
	"math"
	"math/rand"

	"github.com/ayusman/mudra/internal/shape"
)

// World and integration constants. Positions are in world units on a
// virtual plane roughly worldWidth x worldHeight centered on the origin,
// with y up and z toward the viewer.
const (
	worldWidth    = 800.0
	worldHeight   = 600.0
	scatterRadius = 400.0

	// lerpFactor eases positions toward targets each frame. Not
	// frame-time normalized; the host tick is assumed roughly constant.
	lerpFactor      = 0.06
	velocityDamping = 0.90

	// anchorEase is the coarse smoothing applied to the two anchor
	// points, independent of the per-landmark filtering.
	anchorEase = 0.25
)

// Repulsion constants.
const (
	repulsionRadius        = 120.0
	repulsionStrength      = 600.0
	repulsionMaxImpulse    = 12.0
	repulsionPulseFraction = 0.5
)

// Nebula ripple constants.
const (
	rippleSpatialFreq = 0.02
	rippleTimeFreq    = 3.0
	rippleAmplitude   = 1.8
)

// Drawing trail constants.
const (
	pathCapacity    = 180
	pathIdleTimeout = 2.0 // seconds on the engine clock
)

// catchRadius is the radius of the particle ball that swarms the left palm
// in catch mode.
const (
	catchRadius = 70.0
	catchSeed   = 23
)

// Basketball constants.
const (
	ballRadius          = 130.0
	ballSpinRate        = 1.5
	ballFollowEase      = 0.08
	ballCeiling         = 300.0
	ballBounceAmplitude = 50.0
	ballSeamFreq        = 0.05
	ballColorEase       = 0.25
)

// Pulse overlay constants.
const (
	pulseGain  = 0.6
	pulseDecay = 0.88
	pulseFloor = 0.01

	proximityPulseIntensity = 0.5
)

var proximityPulseColor = [3]float64{0.4, 0.8, 1.0}

var (
	ballSeamLight = [3]float64{0.95, 0.45, 0.12}
	ballSeamDark  = [3]float64{0.16, 0.09, 0.05}
)

// confMultiplier maps a detection confidence in [0,1] into roughly
// [0.5,1.2]: shaky detections shrink effect radii and strengths instead of
// flickering them off.
func confMultiplier(conf float64) float64 {
	return 0.5 + 0.7*conf
}

// basketball caches the per-particle sphere offsets and seam colors; both
// depend only on the particle count.
type basketball struct {
	offsets  []shape.Point
	seam     [][3]float64
	cx, cy   float64
	centered bool
}

// tickPhysics runs the per-frame, per-particle update after the mode has
// been resolved. Order matters: forces and target assignment first, pulse
// overlay second, integration always last.
func (e *Engine) tickPhysics() {
	switch e.mode {
	case ModeDrawing:
		e.updateDrawing()
	case ModeCatch:
		e.updateCatch()
	case ModeNebula:
		e.applyRipple()
	case ModeBasketball:
		e.updateBasketball()
	}

	if e.right.present && e.right.count < 5 &&
		e.mode != ModeBasketball && e.mode != ModeDrawing {
		e.applyRepulsion()
	}

	e.applyPulse()
	e.integrate()
}

// applyRepulsion pushes particles near the fingertip anchor away with an
// inverse-square velocity impulse. The radius boundary is exclusive and
// zero-distance particles are skipped outright, so the division is always
// safe. Particles that get very close fire a small pulse.
func (e *Engine) applyRepulsion() {
	if !e.right.anchorSet {
		return
	}
	mult := confMultiplier(e.right.conf)
	radius := repulsionRadius * mult
	ax, ay := e.right.anchorX, e.right.anchorY

	p := e.particles
	for i := 0; i < p.count; i++ {
		j := 3 * i
		dx := p.pos[j] - ax
		dy := p.pos[j+1] - ay
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist <= 0 || dist >= radius {
			continue
		}

		f := repulsionStrength * mult / (dist * dist)
		if f > repulsionMaxImpulse {
			f = repulsionMaxImpulse
		}
		p.vel[j] += dx / dist * f
		p.vel[j+1] += dy / dist * f

		if dist < repulsionPulseFraction*radius {
			e.pulse.trigger(proximityPulseIntensity,
				proximityPulseColor[0], proximityPulseColor[1], proximityPulseColor[2])
		}
	}
}

// applyRipple accumulates an outward traveling wave on every particle's
// z-target, centered on the fingertip anchor.
func (e *Engine) applyRipple() {
	if !e.right.anchorSet {
		return
	}
	mult := confMultiplier(e.right.conf)
	ax, ay := e.right.anchorX, e.right.anchorY

	p := e.particles
	for i := 0; i < p.count; i++ {
		j := 3 * i
		dx := p.pos[j] - ax
		dy := p.pos[j+1] - ay
		dist := math.Sqrt(dx*dx + dy*dy)
		p.tgt[j+2] += math.Sin(dist*rippleSpatialFreq-e.elapsed*rippleTimeFreq) * rippleAmplitude * mult
	}
}

// updateDrawing appends the fingertip anchor to the trail and maps each
// particle index proportionally onto the trail buffer, so the cloud traces
// the drawn path. A trail that has not grown for pathIdleTimeout seconds
// is cleared.
func (e *Engine) updateDrawing() {
	if e.right.present && e.right.anchorSet {
		e.appendPath(e.right.anchorX, e.right.anchorY)
	}

	e.pathMu.Lock()
	if len(e.path) > 0 && e.elapsed-e.lastPathAt > pathIdleTimeout {
		e.path = e.path[:0]
	}
	n := len(e.path)
	if n == 0 {
		e.pathMu.Unlock()
		return
	}

	p := e.particles
	for i := 0; i < p.count; i++ {
		pt := e.path[i*n/p.count]
		j := 3 * i
		p.tgt[j] = pt.X
		p.tgt[j+1] = pt.Y
		p.tgt[j+2] = 0
	}
	e.pathMu.Unlock()
}

// updateCatch swarms the cloud into a ball that sits in the left palm.
// Each particle keeps a fixed pseudo-random offset so the ball holds its
// texture while following the hand.
func (e *Engine) updateCatch() {
	if e.catchOffsets == nil {
		e.catchOffsets = makeCatchOffsets(e.particles.count)
	}
	if !e.left.anchorSet {
		return
	}

	ax, ay := e.left.anchorX, e.left.anchorY
	p := e.particles
	for i := 0; i < p.count; i++ {
		j := 3 * i
		p.tgt[j] = ax + e.catchOffsets[j]
		p.tgt[j+1] = ay + e.catchOffsets[j+1]
		p.tgt[j+2] = e.catchOffsets[j+2]
	}
}

// makeCatchOffsets fills a ball of radius catchRadius with uniformly
// distributed per-particle offsets, deterministically.
func makeCatchOffsets(count int) []float64 {
	rng := rand.New(rand.NewSource(catchSeed))
	offs := make([]float64, 3*count)
	for i := 0; i < count; i++ {
		// Uniform direction, cube-root radial density for uniform volume.
		theta := rng.Float64() * 2 * math.Pi
		cosPhi := rng.Float64()*2 - 1
		sinPhi := math.Sqrt(1 - cosPhi*cosPhi)
		r := catchRadius * math.Cbrt(rng.Float64())

		j := 3 * i
		offs[j] = r * sinPhi * math.Cos(theta)
		offs[j+1] = r * cosPhi
		offs[j+2] = r * sinPhi * math.Sin(theta)
	}
	return offs
}

// updateBasketball shapes the cloud into a spinning, bouncing two-tone
// ball that follows the left palm.
func (e *Engine) updateBasketball() {
	b := &e.ball
	if b.offsets == nil {
		b.offsets = shape.FibonacciSphere(e.particles.count, ballRadius)
		b.seam = make([][3]float64, len(b.offsets))
		for i, o := range b.offsets {
			if math.Sin(o.X*ballSeamFreq)*math.Sin(o.Y*ballSeamFreq) > 0 {
				b.seam[i] = ballSeamLight
			} else {
				b.seam[i] = ballSeamDark
			}
		}
	}

	ax, ay := b.cx, b.cy
	if e.left.anchorSet {
		ax, ay = e.left.anchorX, e.left.anchorY
		if !b.centered {
			b.cx, b.cy = ax, ay
			b.centered = true
		} else {
			b.cx += (ax - b.cx) * ballFollowEase
			b.cy += (ay - b.cy) * ballFollowEase
		}
	}

	// Bounce amplitude peaks mid-approach and dies out at both extremes.
	dx, dy := ax-b.cx, ay-b.cy
	dist := math.Sqrt(dx*dx + dy*dy)
	progress := 1 - math.Min(dist/ballCeiling, 1)
	bounce := math.Sin(progress*math.Pi*8) * ballBounceAmplitude * (1 - progress)

	angle := e.elapsed * ballSpinRate
	sinA, cosA := math.Sincos(angle)

	p := e.particles
	for i := 0; i < p.count; i++ {
		o := b.offsets[i]
		ox := o.X*cosA + o.Z*sinA
		oz := -o.X*sinA + o.Z*cosA

		j := 3 * i
		p.tgt[j] = b.cx + ox
		p.tgt[j+1] = b.cy + o.Y + bounce
		p.tgt[j+2] = oz

		seam := b.seam[i]
		p.col[j] += (seam[0] - p.col[j]) * ballColorEase
		p.col[j+1] += (seam[1] - p.col[j+1]) * ballColorEase
		p.col[j+2] += (seam[2] - p.col[j+2]) * ballColorEase
	}
}

// pulse is a whole-cloud color flash that decays geometrically. A new
// request takes the max of current and requested intensity, never the sum.
type pulse struct {
	intensity float64
	r, g, b   float64
}

func (p *pulse) trigger(intensity, r, g, b float64) {
	if intensity <= p.intensity {
		return
	}
	p.intensity = intensity
	p.r, p.g, p.b = r, g, b
}

// applyPulse additively blends the pulse color into every particle and
// decays the intensity.
func (e *Engine) applyPulse() {
	pu := &e.pulse
	if pu.intensity < pulseFloor {
		return
	}

	p := e.particles
	add := [3]float64{
		pu.r * pu.intensity * pulseGain,
		pu.g * pu.intensity * pulseGain,
		pu.b * pu.intensity * pulseGain,
	}
	for j := 0; j < len(p.col); j += 3 {
		for c := 0; c < 3; c++ {
			v := p.col[j+c] + add[c]
			if v > 1 {
				v = 1
			}
			p.col[j+c] = v
		}
	}

	pu.intensity *= pulseDecay
}

// integrate is the final step of every frame: apply accumulated velocity,
// ease positions toward targets, damp velocity.
func (e *Engine) integrate() {
	p := e.particles
	for j := range p.pos {
		p.pos[j] += p.vel[j]
		p.pos[j] += (p.tgt[j] - p.pos[j]) * lerpFactor
		p.vel[j] *= velocityDamping
	}
}

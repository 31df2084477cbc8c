package engine

import "math/rand"

// DefaultParticleCount is the reference cloud size.
const DefaultParticleCount = 12000

// particleSeed fixes the initial scatter so every run starts from the same
// cloud.
const particleSeed = 94

// Base particle color before any mode has touched it.
var baseColor = [3]float64{0.55, 0.75, 1.0}

// ParticleSet holds the four parallel buffers of the cloud: position,
// target, velocity and color, each 3*count floats with index i*3 belonging
// to particle i. The buffers are allocated once and never reallocated or
// resized for the lifetime of the engine.
type ParticleSet struct {
	count int
	pos   []float64
	tgt   []float64
	vel   []float64
	col   []float64
}

// newParticleSet allocates a cloud of the given size with a deterministic
// pseudo-random scatter; targets start at the scattered positions so an
// idle cloud holds still.
func newParticleSet(count int) *ParticleSet {
	p := &ParticleSet{
		count: count,
		pos:   make([]float64, 3*count),
		tgt:   make([]float64, 3*count),
		vel:   make([]float64, 3*count),
		col:   make([]float64, 3*count),
	}

	rng := rand.New(rand.NewSource(particleSeed))
	for i := 0; i < count; i++ {
		j := 3 * i
		p.pos[j] = (rng.Float64()*2 - 1) * scatterRadius
		p.pos[j+1] = (rng.Float64()*2 - 1) * scatterRadius
		p.pos[j+2] = (rng.Float64()*2 - 1) * scatterRadius * 0.5

		p.tgt[j] = p.pos[j]
		p.tgt[j+1] = p.pos[j+1]
		p.tgt[j+2] = p.pos[j+2]

		p.col[j] = baseColor[0]
		p.col[j+1] = baseColor[1]
		p.col[j+2] = baseColor[2]
	}
	return p
}

// Count returns the number of particles.
func (p *ParticleSet) Count() int {
	return p.count
}

package engine

import "github.com/ayusman/mudra/internal/shape"

// transitionStep is the per-frame progress increment; a full morph takes
// 1/transitionStep frames.
const transitionStep = 0.02

// transition animates the live particle targets toward a newly requested
// point cloud. Progress runs 0..1 and is monotonic between a request and
// completion; the pending cloud is only cleared once progress reaches 1.
type transition struct {
	active   bool
	progress float64
	cloud    []shape.Point
	fixed    *[3]float64
}

// request stages a cloud for morphing. A nil fixed color means each point
// colors itself from its hue tag where present. Empty clouds are refused:
// downstream indexing is modulo the cloud length.
func (t *transition) request(cloud []shape.Point, fixed *[3]float64) {
	if len(cloud) == 0 {
		return
	}
	t.active = true
	t.progress = 0
	t.cloud = cloud
	t.fixed = fixed
}

// tickTransition advances a pending morph by one frame: smoothstep-eased
// interpolation of every particle's target position and color toward its
// cloud point (index mod cloud length).
func (e *Engine) tickTransition() {
	t := &e.trans
	if !t.active {
		return
	}

	t.progress += transitionStep
	if t.progress > 1 {
		t.progress = 1
	}
	ease := t.progress * t.progress * (3 - 2*t.progress)

	m := len(t.cloud)
	p := e.particles
	for i := 0; i < p.count; i++ {
		pt := t.cloud[i%m]
		j := 3 * i

		p.tgt[j] += (pt.X - p.tgt[j]) * ease
		p.tgt[j+1] += (pt.Y - p.tgt[j+1]) * ease
		p.tgt[j+2] += (pt.Z - p.tgt[j+2]) * ease

		var r, g, b float64
		switch {
		case t.fixed != nil:
			r, g, b = t.fixed[0], t.fixed[1], t.fixed[2]
		case pt.HasHue:
			r, g, b = shape.HSLToRGB(pt.Hue/360, 0.9, 0.6)
		default:
			continue
		}
		p.col[j] += (r - p.col[j]) * ease
		p.col[j+1] += (g - p.col[j+1]) * ease
		p.col[j+2] += (b - p.col[j+2]) * ease
	}

	if t.progress >= 1 {
		t.active = false
		t.cloud = nil
		t.fixed = nil
	}
}

package filter

import "github.com/ayusman/mudra/internal/detector"

// HandFilter smooths all 21 landmarks of one physical hand, one OneEuro
// filter per coordinate channel. It must be Reset whenever the hand drops
// out of tracking for a frame, so the next real sample is treated as a
// first observation rather than blended with stale state.
type HandFilter struct {
	channels [detector.NumLandmarks][3]OneEuro
}

// NewHandFilter creates a HandFilter with default One Euro parameters on
// every channel.
func NewHandFilter() *HandFilter {
	f := &HandFilter{}
	for i := range f.channels {
		for c := range f.channels[i] {
			f.channels[i][c] = NewOneEuro()
		}
	}
	return f
}

// Apply smooths every landmark of the given hand at timestamp t (seconds)
// and returns the smoothed copy. Handedness and score pass through.
func (f *HandFilter) Apply(h detector.HandLandmarks, t float64) detector.HandLandmarks {
	out := detector.HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}
	for i := range h.Points {
		out.Points[i] = detector.Point3D{
			X: f.channels[i][0].Filter(h.Points[i].X, t),
			Y: f.channels[i][1].Filter(h.Points[i].Y, t),
			Z: f.channels[i][2].Filter(h.Points[i].Z, t),
		}
	}
	return out
}

// Reset clears all channel state. Never resets a subset; partial resets
// would blend coordinates from before and after a tracking gap.
func (f *HandFilter) Reset() {
	for i := range f.channels {
		for c := range f.channels[i] {
			f.channels[i][c].Reset()
		}
	}
}

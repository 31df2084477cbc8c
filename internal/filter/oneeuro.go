// Package filter provides adaptive jitter filtering for hand landmark streams.
package filter

import "math"

// Default One Euro parameters, tuned for [0,1]-normalized camera coordinates
// sampled at camera frame rates.
const (
	// DefaultMinCutoff is the pass-band floor in Hz. Lower values smooth
	// more aggressively when the hand is still.
	DefaultMinCutoff = 1.0
	// DefaultBeta scales how much the cutoff widens with motion speed.
	DefaultBeta = 0.007
	// DefaultDerivCutoff is the fixed cutoff used to smooth the derivative
	// estimate itself.
	DefaultDerivCutoff = 1.0

	// fallbackFreq is the assumed sampling frequency before two timestamps
	// have been observed, and whenever timestamps fail to advance.
	fallbackFreq = 60.0
)

// OneEuro is a velocity-adaptive low-pass filter for a single scalar
// channel: slow motion is smoothed hard to kill jitter, fast motion passes
// through with minimal lag. The zero value is unusable; use NewOneEuro.
//
// State is a plain value; copying a OneEuro copies its history.
type OneEuro struct {
	MinCutoff   float64
	Beta        float64
	DerivCutoff float64

	seeded bool
	prev   float64 // previous filtered value
	prevDx float64 // previous smoothed derivative
	prevT  float64
	freq   float64
}

// NewOneEuro returns a OneEuro with default parameters and no history.
func NewOneEuro() OneEuro {
	return OneEuro{
		MinCutoff:   DefaultMinCutoff,
		Beta:        DefaultBeta,
		DerivCutoff: DefaultDerivCutoff,
		freq:        fallbackFreq,
	}
}

// Filter feeds one sample at the given timestamp (seconds) and returns the
// smoothed value. The first call after construction or Reset returns the
// raw value unchanged and seeds the filter state.
func (f *OneEuro) Filter(x, t float64) float64 {
	if !f.seeded {
		f.seeded = true
		f.prev = x
		f.prevDx = 0
		f.prevT = t
		return x
	}

	// Estimate sampling frequency; keep the previous estimate if the
	// timestamp failed to advance.
	if dt := t - f.prevT; dt > 0 {
		f.freq = 1 / dt
	}
	f.prevT = t

	// Smooth the derivative with the fixed cutoff.
	dx := (x - f.prev) * f.freq
	ad := smoothingFactor(f.freq, f.DerivCutoff)
	dxHat := ad*dx + (1-ad)*f.prevDx

	// Widen the pass-band with motion speed.
	cutoff := f.MinCutoff + f.Beta*math.Abs(dxHat)
	a := smoothingFactor(f.freq, cutoff)
	xHat := a*x + (1-a)*f.prev

	f.prev = xHat
	f.prevDx = dxHat
	return xHat
}

// Reset clears all remembered state. The next Filter call behaves like the
// first ever sample.
func (f *OneEuro) Reset() {
	f.seeded = false
	f.prev = 0
	f.prevDx = 0
	f.prevT = 0
	f.freq = fallbackFreq
}

// smoothingFactor converts a cutoff frequency into an exponential
// smoothing coefficient for the current sampling frequency.
func smoothingFactor(freq, cutoff float64) float64 {
	r := 2 * math.Pi * cutoff / freq
	return r / (r + 1)
}

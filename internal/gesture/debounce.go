package gesture

// Unknown is the sentinel count for a hand that is not being tracked or
// has not yet produced a stable reading.
const Unknown = -1

// DefaultDebounceFrames is how many consecutive identical raw readings are
// required before a new count is promoted to stable.
const DefaultDebounceFrames = 3

// Debouncer is a hysteresis gate over raw per-frame finger counts. The
// classifier output flickers at finger-extension boundaries; a count only
// becomes stable after K consecutive identical frames, so a single frame
// of disagreement can never change the stable value.
type Debouncer struct {
	frames    int
	stable    int
	candidate int
	run       int
}

// NewDebouncer creates a Debouncer requiring the given number of
// consecutive frames. Values below 1 use DefaultDebounceFrames.
func NewDebouncer(frames int) *Debouncer {
	if frames < 1 {
		frames = DefaultDebounceFrames
	}
	return &Debouncer{
		frames:    frames,
		stable:    Unknown,
		candidate: Unknown,
	}
}

// Update feeds one raw reading and returns the current stable value.
// A reading that matches the current candidate extends its run; once the
// run reaches the frame threshold the candidate becomes stable. A reading
// that disagrees replaces the candidate and restarts the run at 1.
func (d *Debouncer) Update(raw int) int {
	if raw == d.candidate {
		d.run++
		if d.run >= d.frames {
			d.stable = d.candidate
		}
	} else {
		d.candidate = raw
		d.run = 1
	}
	return d.stable
}

// Stable returns the current stable value without feeding a reading.
func (d *Debouncer) Stable() int {
	return d.stable
}

// Reset returns the debouncer to its initial state: stable and candidate
// both Unknown, run cleared. Called on hand loss; resetting only the
// counters would let a stale stable value survive a tracking gap.
func (d *Debouncer) Reset() {
	d.stable = Unknown
	d.candidate = Unknown
	d.run = 0
}

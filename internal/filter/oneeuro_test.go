package filter

import (
	"math"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

func TestOneEuro_FirstCallPassthrough(t *testing.T) {
	f := NewOneEuro()

	got := f.Filter(0.423, 1.5)
	if got != 0.423 {
		t.Errorf("first call should return the raw value, got %f", got)
	}
}

func TestOneEuro_SmoothsJitter(t *testing.T) {
	f := NewOneEuro()

	// A noisy signal around 0.5: the filtered output should stay closer
	// to 0.5 than the raw samples do.
	f.Filter(0.5, 0)
	timestep := 1.0 / 60

	var maxDev float64
	for i := 1; i <= 100; i++ {
		noise := 0.05
		if i%2 == 0 {
			noise = -0.05
		}
		out := f.Filter(0.5+noise, float64(i)*timestep)
		if dev := math.Abs(out - 0.5); dev > maxDev {
			maxDev = dev
		}
	}

	if maxDev >= 0.05 {
		t.Errorf("filter did not attenuate jitter: max deviation %f", maxDev)
	}
}

func TestOneEuro_FastMotionTracksCloser(t *testing.T) {
	// The same step input filtered with and without a velocity already
	// established: the adaptive cutoff should let fast motion through with
	// less lag than the static minimum cutoff would.
	slow := NewOneEuro()
	fast := NewOneEuro()
	timestep := 1.0 / 60

	slow.Filter(0, 0)
	fast.Filter(0, 0)

	// Drive "fast" with a steep ramp, "slow" with a flat signal.
	var slowOut, fastOut float64
	for i := 1; i <= 30; i++ {
		tNow := float64(i) * timestep
		slowOut = slow.Filter(0.001*float64(i), tNow)
		fastOut = fast.Filter(0.05*float64(i), tNow)
	}

	slowLag := math.Abs(0.001*30 - slowOut)
	fastLag := math.Abs(0.05*30 - fastOut)

	// Relative lag: fast motion should lag proportionally less.
	if fastLag/(0.05*30) >= slowLag/(0.001*30) {
		t.Errorf("fast motion lag ratio %f should be below slow motion lag ratio %f",
			fastLag/(0.05*30), slowLag/(0.001*30))
	}
}

func TestOneEuro_StalledTimestampKeepsFrequency(t *testing.T) {
	f := NewOneEuro()
	f.Filter(0.1, 1.0)
	f.Filter(0.2, 2.0)

	// Repeated or regressing timestamps must not divide by zero or go
	// negative; the previous frequency estimate stays in effect.
	for _, ts := range []float64{2.0, 1.5} {
		out := f.Filter(0.3, ts)
		if math.IsNaN(out) || math.IsInf(out, 0) {
			t.Fatalf("non-finite output %f for timestamp %f", out, ts)
		}
	}
}

func TestOneEuro_Reset(t *testing.T) {
	f := NewOneEuro()
	f.Filter(0.9, 1.0)
	f.Filter(0.91, 1.1)

	f.Reset()

	got := f.Filter(0.1, 5.0)
	if got != 0.1 {
		t.Errorf("call after Reset should return the raw value, got %f", got)
	}
}

func TestHandFilter_ApplyAndReset(t *testing.T) {
	hf := NewHandFilter()
	hand := detector.OpenPalmLandmarks()

	// First application passes every coordinate through untouched.
	first := hf.Apply(hand, 0)
	for i := range hand.Points {
		if first.Points[i] != hand.Points[i] {
			t.Fatalf("landmark %d changed on first application: %+v != %+v",
				i, first.Points[i], hand.Points[i])
		}
	}
	if first.Handedness != hand.Handedness || first.Score != hand.Score {
		t.Error("handedness and score should pass through")
	}

	// A second, moved sample gets smoothed: output lies strictly between
	// the previous and the new raw value.
	moved := hand
	moved.Points[detector.IndexTip].X += 0.2
	second := hf.Apply(moved, 1.0/60)

	gotX := second.Points[detector.IndexTip].X
	rawX := moved.Points[detector.IndexTip].X
	prevX := hand.Points[detector.IndexTip].X
	if gotX <= prevX || gotX >= rawX {
		t.Errorf("smoothed X %f should lie between %f and %f", gotX, prevX, rawX)
	}

	// After Reset the next sample is a first observation again.
	hf.Reset()
	third := hf.Apply(moved, 2.0)
	if third.Points[detector.IndexTip].X != rawX {
		t.Errorf("after Reset expected passthrough %f, got %f",
			rawX, third.Points[detector.IndexTip].X)
	}
}

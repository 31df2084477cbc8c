package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
	"gocv.io/x/gocv"
)

func TestApp_New(t *testing.T) {
	a := New(Config{ParticleCount: 50})

	if a.Engine() == nil {
		t.Fatal("app should own an engine")
	}
	if a.Engine().ParticleCount() != 50 {
		t.Errorf("particle count = %d, want 50", a.Engine().ParticleCount())
	}
	if a.Detector() == nil {
		t.Error("app should fall back to a mock detector")
	}
	if !a.IsEnabled() {
		t.Error("tracking should default to on")
	}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestApp_TrackingStatePersistsAcrossRuns(t *testing.T) {
	st := newTestStore(t)

	first := New(Config{Store: st, ParticleCount: 10})
	if !first.IsEnabled() {
		t.Fatal("first run should default to tracking on")
	}
	first.SetEnabled(false)

	second := New(Config{Store: st, ParticleCount: 10})
	if second.IsEnabled() {
		t.Error("paused state should survive a restart")
	}

	second.SetEnabled(true)
	third := New(Config{Store: st, ParticleCount: 10})
	if !third.IsEnabled() {
		t.Error("resumed state should survive a restart")
	}
}

func TestApp_MotionThresholdRestoredFromStore(t *testing.T) {
	st := newTestStore(t)
	if err := st.Settings().Set("motion_threshold", "3.5"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	a := New(Config{Store: st, MotionThresh: 0.5, ParticleCount: 10})
	if got := a.MotionGate().Threshold(); got != 3.5 {
		t.Errorf("threshold = %v, want the stored 3.5", got)
	}
}

func TestApp_BadMotionThresholdSettingIgnored(t *testing.T) {
	st := newTestStore(t)
	if err := st.Settings().Set("motion_threshold", "garbage"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	a := New(Config{Store: st, MotionThresh: 0.5, ParticleCount: 10})
	if got := a.MotionGate().Threshold(); got != 0.5 {
		t.Errorf("threshold = %v, want the configured 0.5", got)
	}
}

func TestApp_DisableClearsHands(t *testing.T) {
	a := New(Config{ParticleCount: 50})
	e := a.Engine()

	// Drive a hand to a stable count directly through the engine.
	hand := detector.CountLandmarks(2, detector.HandednessRight)
	for i := 0; i < gesture.DefaultDebounceFrames; i++ {
		e.SubmitHands([]detector.HandLandmarks{hand})
		e.Tick(1.0 / 60)
	}
	if !e.Frame().Right.Present {
		t.Fatal("setup: right hand should be present")
	}

	a.SetEnabled(true)
	a.SetEnabled(false)
	e.Tick(1.0 / 60)

	if e.Frame().Right.Present {
		t.Error("pausing tracking should clear hand state on the next tick")
	}
}

func TestApp_FullPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	// Alternating dark and bright frames keep the motion gate active.
	dark := gocv.NewMatWithSize(capture.FrameHeight, capture.FrameWidth, gocv.MatTypeCV8UC3)
	defer dark.Close()
	bright := gocv.NewMatWithSize(capture.FrameHeight, capture.FrameWidth, gocv.MatTypeCV8UC3)
	defer bright.Close()
	bright.SetTo(gocv.NewScalar(220, 220, 220, 0))

	a := New(Config{ParticleCount: 100, MotionThresh: 0.5})
	a.SetCamera(capture.NewPlaybackCamera([]*gocv.Mat{&dark, &bright}, true))

	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{
		detector.CountLandmarks(5, detector.HandednessRight),
	})
	a.SetDetector(mock)

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer a.Stop()
	a.SetEnabled(true)

	// An open right hand held across the debounce window scatters the
	// cloud into the nebula.
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		frame := a.Engine().Frame()
		if frame.Mode == "nebula" && frame.Right.Count == 5 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}

	frame := a.Engine().Frame()
	t.Fatalf("pipeline never reached nebula: mode=%q right=%+v", frame.Mode, frame.Right)
}

func TestApp_StartIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	frame := gocv.NewMatWithSize(capture.FrameHeight, capture.FrameWidth, gocv.MatTypeCV8UC3)
	defer frame.Close()

	a := New(Config{ParticleCount: 50})
	a.SetCamera(capture.NewPlaybackCamera([]*gocv.Mat{&frame}, true))
	a.SetDetector(detector.NewMockDetector())

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := a.Start(); err != nil {
		t.Errorf("second Start() error = %v", err)
	}
	a.Stop()
}

// Package app wires the capture, detection and particle engine pieces of
// Mudra into one running pipeline.
package app

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleTimeout is how long the scene must stay still before the
	// pipeline drops back to the idle capture rate.
	IdleTimeout = 2 * time.Second
	// SimulationFPS is the particle engine tick rate. It is independent
	// of the capture rate; detection results arrive whenever they arrive.
	SimulationFPS = 60
)

// Setting keys persisted across runs.
const (
	settingTrackingEnabled = "tracking_enabled"
	settingMotionThreshold = "motion_threshold"
)

// Config holds configuration options for the application.
type Config struct {
	Store         *store.Store
	CameraID      int
	MotionThresh  float64
	ParticleCount int
}

// App owns the camera, motion gate, hand detector and particle engine, and
// runs the capture and simulation loops.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionGate
	detector detector.Detector
	engine   *engine.Engine

	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// New creates an App with the given configuration. Tracking starts
// enabled; when a store is configured, the previous run's tracking state
// and motion threshold are restored first.
func New(config Config) *App {
	a := &App{
		config:  config,
		enabled: true,
	}
	a.restoreSettings()
	a.camera = capture.NewWebcam(a.config.CameraID)
	a.motion = capture.NewMotionGate(a.config.MotionThresh)
	a.engine = engine.New(engine.Config{ParticleCount: a.config.ParticleCount})

	// Try MediaPipe first, fall back to the mock detector so the engine
	// still runs without a working Python install.
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// restoreSettings applies values persisted by a previous run.
func (a *App) restoreSettings() {
	if a.config.Store == nil {
		return
	}
	settings := a.config.Store.Settings()

	if v, err := settings.Get(settingTrackingEnabled); err == nil {
		a.enabled = v == "true"
	}
	if v, err := settings.Get(settingMotionThreshold); err == nil {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			log.Printf("Ignoring saved motion threshold %q: %v", v, err)
		} else {
			a.config.MotionThresh = f
		}
	}
}

// SetEnabled pauses or resumes hand tracking and persists the choice when
// a store is configured. The particle simulation keeps running either way;
// pausing just stops new hand input.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	wasEnabled := a.enabled
	a.enabled = enabled
	a.mu.Unlock()

	// Pausing is an explicit no-hands notification, otherwise the last
	// detected hands would stay frozen in the cloud.
	if wasEnabled && !enabled {
		a.engine.SubmitHands(nil)
	}

	if a.config.Store != nil {
		if err := a.config.Store.Settings().Set(settingTrackingEnabled, strconv.FormatBool(enabled)); err != nil {
			log.Printf("Error saving tracking state: %v", err)
		}
	}
}

// IsEnabled returns whether hand tracking is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector replaces the hand detector implementation.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the camera. Only valid before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Start opens the camera and begins the capture and simulation loops.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(capture.IdleFPS)

	a.stopCh = make(chan struct{})
	a.wg.Add(2)
	go a.runPipeline(a.stopCh)
	go a.runSimulation(a.stopCh)

	log.Println("Pipeline started")
	return nil
}

// Stop halts both loops and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
	a.mu.Unlock()

	a.wg.Wait()

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// MotionGate returns the motion gate instance.
func (a *App) MotionGate() *capture.MotionGate {
	return a.motion
}

// Engine returns the particle engine.
func (a *App) Engine() *engine.Engine {
	return a.engine
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

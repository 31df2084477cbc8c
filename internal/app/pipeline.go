package app

import (
	"log"
	"time"

	"github.com/ayusman/mudra/internal/capture"
)

// runPipeline is the capture loop. It reads frames, gates on motion, runs
// hand detection while the scene is active, and feeds results into the
// engine.
//
// Pipeline logic:
//  1. Start in idle mode at the idle capture rate
//  2. On motion, switch to the active rate and run detection every frame
//  3. Every detection result, including an empty one, goes to the engine
//  4. After IdleTimeout with no motion, drop back to idle
func (a *App) runPipeline(stop <-chan struct{}) {
	defer a.wg.Done()

	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(capture.IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			camera := a.Camera()
			frame, err := camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected, _ := a.motion.Observe(frame)

			if motionDetected {
				lastMotionTime = time.Now()
				if !activeMode {
					activeMode = true
					camera.SetFPS(capture.ActiveFPS)
					frameInterval = time.Second / time.Duration(capture.ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode && time.Since(lastMotionTime) > IdleTimeout {
				activeMode = false
				camera.SetFPS(capture.IdleFPS)
				frameInterval = time.Second / time.Duration(capture.IdleFPS)
				ticker.Reset(frameInterval)
				// Whatever hands were on screen are gone.
				a.engine.SubmitHands(nil)
				log.Println("Switched to idle mode")
			}

			if !activeMode {
				frame.Close()
				continue
			}

			d := a.Detector()
			if d == nil {
				frame.Close()
				continue
			}

			hands, err := d.Detect(frame)
			frame.Close()
			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			// An empty result is meaningful: it clears hand state.
			a.engine.SubmitHands(hands)
		}
	}
}

// runSimulation ticks the particle engine at SimulationFPS using measured
// wall-clock deltas, so a slow tick does not slow the cloud down.
func (a *App) runSimulation(stop <-chan struct{}) {
	defer a.wg.Done()

	interval := time.Second / time.Duration(SimulationFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			a.engine.Tick(now.Sub(last).Seconds())
			last = now
		}
	}
}

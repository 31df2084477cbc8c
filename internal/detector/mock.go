package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// CountLandmarks returns a preset HandLandmarks showing the given number of
// extended fingers, in the order index, middle, ring, pinky, thumb. Counts
// outside [0,5] are clamped. The pose is anatomically plausible enough to
// classify cleanly: extended fingers point up and away from the palm,
// curled fingers fold back toward it.
func CountLandmarks(count int, handedness string) HandLandmarks {
	if count < 0 {
		count = 0
	}
	if count > 5 {
		count = 5
	}

	h := HandLandmarks{
		Handedness: handedness,
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80}

	// Palm center reference; finger extension is measured against this.
	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.65}

	fingers := []struct {
		mcp, pip, dip, tip int
		baseX, baseY       float64
	}{
		{IndexMCP, IndexPIP, IndexDIP, IndexTip, 0.56, 0.66},
		{MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip, 0.50, 0.65},
		{RingMCP, RingPIP, RingDIP, RingTip, 0.44, 0.66},
		{PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip, 0.38, 0.68},
	}

	for i, f := range fingers {
		h.Points[f.mcp] = Point3D{X: f.baseX, Y: f.baseY}
		if i < count {
			// Extended: straight up from the knuckle.
			h.Points[f.pip] = Point3D{X: f.baseX, Y: f.baseY - 0.07}
			h.Points[f.dip] = Point3D{X: f.baseX, Y: f.baseY - 0.13}
			h.Points[f.tip] = Point3D{X: f.baseX, Y: f.baseY - 0.19}
		} else {
			// Curled: tip folded back below the PIP, close to the palm.
			h.Points[f.pip] = Point3D{X: f.baseX, Y: f.baseY - 0.03}
			h.Points[f.dip] = Point3D{X: f.baseX - 0.01, Y: f.baseY}
			h.Points[f.tip] = Point3D{X: f.baseX - 0.01, Y: f.baseY + 0.02}
		}
	}

	h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.74}
	h.Points[ThumbMCP] = Point3D{X: 0.61, Y: 0.70}
	if count == 5 {
		// Extended: CMC, MCP and IP roughly collinear, tip far from the palm.
		h.Points[ThumbIP] = Point3D{X: 0.66, Y: 0.66}
		h.Points[ThumbTip] = Point3D{X: 0.70, Y: 0.62}
	} else {
		// Bent sharply at the MCP, tip resting near the palm.
		h.Points[ThumbIP] = Point3D{X: 0.59, Y: 0.67}
		h.Points[ThumbTip] = Point3D{X: 0.56, Y: 0.67}
	}

	if handedness == HandednessLeft {
		for i := range h.Points {
			h.Points[i].X = 1 - h.Points[i].X
		}
	}

	return h
}

// OpenPalmLandmarks returns a right hand with all five fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return CountLandmarks(5, HandednessRight)
}

// FistLandmarks returns a right hand with no fingers extended.
func FistLandmarks() HandLandmarks {
	return CountLandmarks(0, HandednessRight)
}

// PointingLandmarks returns a right hand with only the index finger extended.
func PointingLandmarks() HandLandmarks {
	return CountLandmarks(1, HandednessRight)
}

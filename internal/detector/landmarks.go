// Package detector provides hand landmark detection for the Mudra particle engine.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Handedness labels reported by the tracking model.
const (
	HandednessLeft  = "Left"
	HandednessRight = "Right"
)

// Point3D is one landmark position. X and Y are normalized to [0,1] in
// camera space; Z is relative depth and may be zero when the model does
// not report it.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one tracked hand: 21 landmarks, a handedness label and
// a detection confidence score in [0,1].
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"`
	Score      float64               `json:"score"`
}

// PalmCenter returns the landmark used as the palm center reference.
// The middle finger MCP sits closest to the geometric palm center in the
// MediaPipe topology.
func (h *HandLandmarks) PalmCenter() Point3D {
	return h.Points[MiddleMCP]
}

// IsLeft reports whether the hand was labelled as the physical left hand.
func (h *HandLandmarks) IsLeft() bool {
	return h.Handedness == HandednessLeft
}

// PlanarDistance returns the distance between two landmarks in the camera
// plane, ignoring depth. Depth estimates are too noisy for the finger
// extension tests that use this.
func PlanarDistance(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Distance returns the full Euclidean distance between two landmarks.
func Distance(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

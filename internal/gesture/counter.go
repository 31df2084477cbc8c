// Package gesture converts smoothed hand landmarks into stable finger counts.
package gesture

import (
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

// Classification thresholds.
const (
	// fingerYMargin is how far (in normalized camera units) a fingertip
	// must sit above its PIP joint to count as extended.
	fingerYMargin = 0.02

	// fingerDistRatio is the minimum ratio of tip-to-palm over PIP-to-palm
	// planar distance. Rejects false "extended" reads when the hand is
	// tilted and the vertical test alone is unreliable.
	fingerDistRatio = 0.95

	// thumbStraightAngle is the minimum interior angle (radians) at the
	// thumb MCP for the thumb to count as straight. A fully straight thumb
	// measures pi here.
	thumbStraightAngle = 2.0

	// thumbDistRatio is how much farther than its MCP the thumb tip must
	// be from the palm. The angle test alone misfires when the thumb is
	// bent but still held away from the palm.
	thumbDistRatio = 1.2
)

// fingerJoints lists PIP and tip indices for the four non-thumb digits.
var fingerJoints = [4][2]int{
	{detector.IndexPIP, detector.IndexTip},
	{detector.MiddlePIP, detector.MiddleTip},
	{detector.RingPIP, detector.RingTip},
	{detector.PinkyPIP, detector.PinkyTip},
}

// Count returns the number of extended fingers in [0,5] for one hand.
// It is a pure function of the landmark set; callers are expected to pass
// smoothed landmarks, since raw tracker output flickers too much for a
// per-frame boolean test.
func Count(h *detector.HandLandmarks) int {
	if h == nil {
		return 0
	}

	palm := h.PalmCenter()
	count := 0

	for _, joints := range fingerJoints {
		pip := h.Points[joints[0]]
		tip := h.Points[joints[1]]

		// Camera y grows downward, so "above" is numerically less.
		raised := tip.Y < pip.Y-fingerYMargin
		reaching := detector.PlanarDistance(tip, palm) > fingerDistRatio*detector.PlanarDistance(pip, palm)
		if raised && reaching {
			count++
		}
	}

	if thumbExtended(h, palm) {
		count++
	}

	return count
}

// thumbExtended tests the thumb with an angle test at the MCP joint plus a
// palm distance test. Both must hold.
func thumbExtended(h *detector.HandLandmarks, palm detector.Point3D) bool {
	cmc := h.Points[detector.ThumbCMC]
	mcp := h.Points[detector.ThumbMCP]
	ip := h.Points[detector.ThumbIP]
	tip := h.Points[detector.ThumbTip]

	straight := interiorAngle(cmc, mcp, ip) > thumbStraightAngle
	away := detector.PlanarDistance(tip, palm) > thumbDistRatio*detector.PlanarDistance(mcp, palm)
	return straight && away
}

// interiorAngle returns the angle at vertex b between the segments b->a and
// b->c, in radians. Collinear points give pi; degenerate zero-length
// segments give 0.
func interiorAngle(a, b, c detector.Point3D) float64 {
	v1x, v1y := a.X-b.X, a.Y-b.Y
	v2x, v2y := c.X-b.X, c.Y-b.Y

	n1 := math.Sqrt(v1x*v1x + v1y*v1y)
	n2 := math.Sqrt(v2x*v2x + v2y*v2y)
	if n1 == 0 || n2 == 0 {
		return 0
	}

	cos := (v1x*v2x + v1y*v2y) / (n1 * n2)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// Package shape generates static target point clouds for the particle
// engine. All generators are pure and deterministic given their arguments,
// and the returned cloud length is independent of the particle count:
// consumers index into clouds with i mod len and must guard len == 0.
package shape

// Point is one target position in world units, optionally tagged with a
// hue in degrees for gradient coloring.
type Point struct {
	X, Y, Z float64
	Hue     float64
	HasHue  bool
}

package shape

import "math"

// Lissajous parameters.
const (
	lissajousA         = 3.0
	lissajousB         = 2.0
	lissajousDelta     = math.Pi / 2
	lissajousAmplitude = 300.0
)

// kochRadius is the circumradius of the base triangle in world units.
const kochRadius = 300.0

// Lissajous returns a closed 3:2 Lissajous curve sampled at count points,
// each tagged with a hue sweeping 0..360 degrees along the curve.
func Lissajous(count int) []Point {
	if count <= 0 {
		return nil
	}

	span := 2 * math.Pi * math.Max(lissajousA, lissajousB)
	pts := make([]Point, count)
	for i := range pts {
		t := float64(i) / float64(count) * span
		pts[i] = Point{
			X:      lissajousAmplitude * math.Sin(lissajousA*t+lissajousDelta),
			Y:      lissajousAmplitude * math.Sin(lissajousB*t),
			Hue:    float64(i) / float64(count) * 360,
			HasHue: true,
		}
	}
	return pts
}

// KochSnowflake builds the classic Koch snowflake to the given recursion
// depth and resamples it to exactly count points. Resampling scales by
// segment index, not arc length; the resulting density bias is part of the
// visual contract and deliberately kept. Depth 0 samples the raw triangle's
// three edges with no bump insertion.
func KochSnowflake(iterations, count int) []Point {
	if count <= 0 {
		return nil
	}
	if iterations < 0 {
		iterations = 0
	}

	// Equilateral triangle pointing up, centered on the origin.
	var verts [3][2]float64
	for i := range verts {
		a := math.Pi/2 + float64(i)*2*math.Pi/3
		verts[i] = [2]float64{kochRadius * math.Cos(a), kochRadius * math.Sin(a)}
	}

	var segs [][2][2]float64
	for i := 0; i < 3; i++ {
		segs = append(segs, kochEdge(verts[i], verts[(i+1)%3], iterations)...)
	}

	n := len(segs)
	pts := make([]Point, count)
	for i := range pts {
		f := float64(i) * float64(n) / float64(count)
		idx := int(f)
		if idx >= n {
			idx = n - 1
		}
		frac := f - float64(idx)
		a, b := segs[idx][0], segs[idx][1]
		pts[i] = Point{
			X: a[0] + (b[0]-a[0])*frac,
			Y: a[1] + (b[1]-a[1])*frac,
		}
	}
	return pts
}

// kochEdge recursively replaces the segment a-b with four sub-segments
// forming an outward 60 degree bump.
func kochEdge(a, b [2]float64, depth int) [][2][2]float64 {
	if depth == 0 {
		return [][2][2]float64{{a, b}}
	}

	dx := (b[0] - a[0]) / 3
	dy := (b[1] - a[1]) / 3

	p1 := [2]float64{a[0] + dx, a[1] + dy}
	p3 := [2]float64{a[0] + 2*dx, a[1] + 2*dy}

	// Bump apex: the middle third rotated -60 degrees about p1 so the
	// spike points away from the triangle interior.
	cos, sin := 0.5, -math.Sqrt(3)/2
	p2 := [2]float64{
		p1[0] + dx*cos - dy*sin,
		p1[1] + dx*sin + dy*cos,
	}

	var out [][2][2]float64
	out = append(out, kochEdge(a, p1, depth-1)...)
	out = append(out, kochEdge(p1, p2, depth-1)...)
	out = append(out, kochEdge(p2, p3, depth-1)...)
	out = append(out, kochEdge(p3, b, depth-1)...)
	return out
}

// FibonacciSphere distributes count points over a sphere of the given
// radius using the golden-angle spiral.
func FibonacciSphere(count int, radius float64) []Point {
	if count <= 0 {
		return nil
	}

	pts := make([]Point, count)
	if count == 1 {
		pts[0] = Point{Y: radius}
		return pts
	}

	golden := math.Pi * (3 - math.Sqrt(5))
	for i := range pts {
		y := 1 - 2*float64(i)/float64(count-1)
		ry := math.Sqrt(math.Max(0, 1-y*y))
		theta := float64(i) * golden
		pts[i] = Point{
			X: math.Cos(theta) * ry * radius,
			Y: y * radius,
			Z: math.Sin(theta) * ry * radius,
		}
	}
	return pts
}

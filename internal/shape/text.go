package shape

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Text rasterization parameters.
const (
	// textLuminanceMin is the luminance threshold a bitmap pixel must
	// exceed to produce a point.
	textLuminanceMin = 0x7f
	// textSampleStride is the pixel stride when sampling the bitmap.
	textSampleStride = 1
	// textScale maps one bitmap pixel to world units.
	textScale = 14.0
)

// TextPoints rasterizes text at a fixed size and returns one point per lit
// bitmap pixel, mapped into a centered plane at z=0. The result is usually
// far smaller than the particle count; empty text yields an empty cloud.
func TextPoints(text string) []Point {
	if text == "" {
		return nil
	}

	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	h := face.Height
	if w <= 0 {
		return nil
	}

	img := image.NewGray(image.Rect(0, 0, w, h))
	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(text)

	halfW := float64(w) / 2
	halfH := float64(h) / 2

	var pts []Point
	for y := 0; y < h; y += textSampleStride {
		for x := 0; x < w; x += textSampleStride {
			if img.GrayAt(x, y).Y <= textLuminanceMin {
				continue
			}
			// Bitmap y grows downward; world y grows upward.
			pts = append(pts, Point{
				X: (float64(x) - halfW) * textScale,
				Y: (halfH - float64(y)) * textScale,
			})
		}
	}
	return pts
}

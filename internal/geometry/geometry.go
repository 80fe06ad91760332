// Package geometry provides pixel-permuting transformations over pixbuf
// buffers: quarter-turn rotations, flips, transposition, cropping, arbitrary
// rotation and shearing.
//
// Quarter turns, flips and crops only move samples and are exact. Arbitrary
// rotation and shearing resample and therefore blend neighbouring pixels.
//
// Rotation names follow the clockwise convention: Rotate90 turns the image a
// quarter turn clockwise and Rotate270 is its exact inverse. Note that
// disintegration/imaging names its functions counter-clockwise, so Rotate90
// here is imaging.Rotate270 and vice versa.
package geometry

import (
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixbuf"
)

// Rotate90 rotates b a quarter turn clockwise. The result is b.Height wide
// and b.Width tall; pixel (x, y) of the result is b(y, b.Height-1-x).
func Rotate90(b pixbuf.Buffer) pixbuf.Buffer {
	b.MustValid()
	if b.Empty() {
		return pixbuf.New(b.Height, b.Width)
	}
	return pixbuf.FromImage(imaging.Rotate270(b.NRGBA()))
}

// Rotate270 rotates b a quarter turn counter-clockwise, undoing Rotate90.
func Rotate270(b pixbuf.Buffer) pixbuf.Buffer {
	b.MustValid()
	if b.Empty() {
		return pixbuf.New(b.Height, b.Width)
	}
	return pixbuf.FromImage(imaging.Rotate90(b.NRGBA()))
}

// Rotate180 turns b upside down.
func Rotate180(b pixbuf.Buffer) pixbuf.Buffer {
	b.MustValid()
	if b.Empty() {
		return b.Clone()
	}
	return pixbuf.FromImage(imaging.Rotate180(b.NRGBA()))
}

// Transpose mirrors b across its main diagonal.
func Transpose(b pixbuf.Buffer) pixbuf.Buffer {
	b.MustValid()
	if b.Empty() {
		return pixbuf.New(b.Height, b.Width)
	}
	return pixbuf.FromImage(imaging.Transpose(b.NRGBA()))
}

// FlipH mirrors b left to right.
func FlipH(b pixbuf.Buffer) pixbuf.Buffer {
	b.MustValid()
	if b.Empty() {
		return b.Clone()
	}
	return pixbuf.FromImage(imaging.FlipH(b.NRGBA()))
}

// FlipV mirrors b top to bottom.
func FlipV(b pixbuf.Buffer) pixbuf.Buffer {
	b.MustValid()
	if b.Empty() {
		return b.Clone()
	}
	return pixbuf.FromImage(imaging.FlipV(b.NRGBA()))
}

// Rotate rotates b counter-clockwise by angle degrees around its centre.
// The output is enlarged to fit the rotated image and uncovered areas are
// filled with bg.
func Rotate(b pixbuf.Buffer, angle float64, bg color.NRGBA) pixbuf.Buffer {
	b.MustValid()
	if b.Empty() {
		return b.Clone()
	}
	return pixbuf.FromImage(imaging.Rotate(b.NRGBA(), angle, bg))
}

// ShearH shears b horizontally by angle degrees. The output is widened to
// hold the sheared image.
func ShearH(b pixbuf.Buffer, angle float64) pixbuf.Buffer {
	b.MustValid()
	if b.Empty() {
		return b.Clone()
	}
	return pixbuf.FromImage(transform.ShearH(b.NRGBA(), angle))
}

// ShearV shears b vertically by angle degrees. The output is heightened to
// hold the sheared image.
func ShearV(b pixbuf.Buffer, angle float64) pixbuf.Buffer {
	b.MustValid()
	if b.Empty() {
		return b.Clone()
	}
	return pixbuf.FromImage(transform.ShearV(b.NRGBA(), angle))
}

// RotatedSize returns an upper bound on the dimensions Rotate produces for a
// w x h buffer turned by angle degrees.
func RotatedSize(w, h int, angle float64) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	sin, cos := math.Sincos(angle * math.Pi / 180)
	sin, cos = math.Abs(sin), math.Abs(cos)
	fw, fh := float64(w), float64(h)
	return ceilSize(fw*cos + fh*sin), ceilSize(fw*sin + fh*cos)
}

// ShearSize returns the dimensions ShearH produces for a w x h buffer sheared
// by angle degrees. Swap the arguments and results for ShearV.
func ShearSize(w, h int, angle float64) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	extra := float64(h) * math.Abs(math.Tan(angle*math.Pi/180))
	return ceilSize(float64(w) + extra), h
}

// ceilSize rounds f up to a whole pixel count, saturating at math.MaxInt.
// Rounding error below 1e-9 is ignored so that exact quarter turns stay exact.
func ceilSize(f float64) int {
	f = math.Ceil(f - 1e-9)
	if math.IsNaN(f) || f >= math.MaxInt {
		return math.MaxInt
	}
	return int(f)
}

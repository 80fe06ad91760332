// Package pixbuf defines the pixel buffer shared by every transformation in
// the toolkit.
//
// A Buffer is a width x height grid of interleaved 8-bit RGBA samples stored
// row-major with no padding between rows. Samples are non-premultiplied, so a
// Buffer maps one-to-one onto an *image.NRGBA with Stride == Width*4.
//
// # Ownership
//
// Buffers are treated as values. Operations never mutate their input and
// always return freshly allocated output, so two buffers never share a Pix
// slice unless the caller explicitly asked for a view (see NRGBA).
//
// # Preconditions
//
// A buffer whose Pix length is not Width*Height*4, or whose dimensions are
// negative, is malformed. Malformed buffers indicate a caller bug and make
// MustValid panic instead of producing garbage.
package pixbuf

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"

	"github.com/cespare/xxhash/v2"
	"github.com/disintegration/imaging"
)

// Channels is the number of samples per pixel.
const Channels = 4

// Buffer is an RGBA pixel buffer.
type Buffer struct {
	Width  int
	Height int
	Pix    []byte
}

// New allocates a fully transparent buffer of the given size.
func New(width, height int) Buffer {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("pixbuf: negative dimensions %dx%d", width, height))
	}
	return Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*Channels),
	}
}

// Filled allocates a buffer with every pixel set to (r, g, b, a).
func Filled(width, height int, r, g, b, a uint8) Buffer {
	buf := New(width, height)
	for i := 0; i < len(buf.Pix); i += Channels {
		buf.Pix[i] = r
		buf.Pix[i+1] = g
		buf.Pix[i+2] = b
		buf.Pix[i+3] = a
	}
	return buf
}

// FromBytes copies pix into a new buffer after checking its length.
func FromBytes(width, height int, pix []byte) (Buffer, error) {
	if width < 0 || height < 0 {
		return Buffer{}, fmt.Errorf("negative dimensions %dx%d", width, height)
	}
	if len(pix) != width*height*Channels {
		return Buffer{}, fmt.Errorf("pixel data length %d does not match %dx%d RGBA (%d bytes)",
			len(pix), width, height, width*height*Channels)
	}
	buf := New(width, height)
	copy(buf.Pix, pix)
	return buf, nil
}

// FromImage converts any image.Image into a Buffer. Images that are not
// already NRGBA are converted through imaging.Clone, which un-premultiplies
// alpha.
func FromImage(img image.Image) Buffer {
	src, ok := img.(*image.NRGBA)
	if !ok {
		src = imaging.Clone(img)
	}
	bounds := src.Bounds()
	buf := New(bounds.Dx(), bounds.Dy())
	rowLen := buf.Width * Channels
	for y := 0; y < buf.Height; y++ {
		i := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(buf.Pix[y*rowLen:(y+1)*rowLen], src.Pix[i:i+rowLen])
	}
	return buf
}

// NRGBA returns an *image.NRGBA sharing b's samples. It is meant for handing
// the buffer to image libraries that only read from it; writes through the
// view are visible in b.
func (b Buffer) NRGBA() *image.NRGBA {
	b.MustValid()
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * Channels,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// MustValid panics if b violates the length invariant.
func (b Buffer) MustValid() {
	if b.Width < 0 || b.Height < 0 {
		panic(fmt.Sprintf("pixbuf: malformed buffer: negative dimensions %dx%d", b.Width, b.Height))
	}
	if len(b.Pix) != b.Width*b.Height*Channels {
		panic(fmt.Sprintf("pixbuf: malformed buffer: %d bytes for %dx%d RGBA, want %d",
			len(b.Pix), b.Width, b.Height, b.Width*b.Height*Channels))
	}
}

// Empty reports whether b has no pixels.
func (b Buffer) Empty() bool {
	return b.Width == 0 || b.Height == 0
}

// Clone returns a deep copy of b.
func (b Buffer) Clone() Buffer {
	out := Buffer{Width: b.Width, Height: b.Height, Pix: make([]byte, len(b.Pix))}
	copy(out.Pix, b.Pix)
	return out
}

// Equal reports whether b and o have the same dimensions and samples.
func (b Buffer) Equal(o Buffer) bool {
	return b.Width == o.Width && b.Height == o.Height && bytes.Equal(b.Pix, o.Pix)
}

// Offset returns the index of the first sample of pixel (x, y).
func (b Buffer) Offset(x, y int) int {
	return y*b.Width*Channels + x*Channels
}

// Row returns the samples of row y. The slice aliases b.
func (b Buffer) Row(y int) []byte {
	rowLen := b.Width * Channels
	return b.Pix[y*rowLen : (y+1)*rowLen]
}

// At returns the pixel at (x, y).
func (b Buffer) At(x, y int) color.NRGBA {
	i := b.Offset(x, y)
	return color.NRGBA{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

// Set writes c at (x, y). Set mutates b and is intended for code that owns a
// freshly allocated buffer.
func (b Buffer) Set(x, y int, c color.NRGBA) {
	i := b.Offset(x, y)
	b.Pix[i] = c.R
	b.Pix[i+1] = c.G
	b.Pix[i+2] = c.B
	b.Pix[i+3] = c.A
}

// Contains reports whether (x, y) lies inside b.
func (b Buffer) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// Digest returns a 16 character hex xxHash64 of the dimensions and samples.
// Equal buffers have equal digests.
func (b Buffer) Digest() string {
	h := xxhash.New()
	var dims [16]byte
	binary.BigEndian.PutUint64(dims[:8], uint64(b.Width))
	binary.BigEndian.PutUint64(dims[8:], uint64(b.Height))
	_, _ = h.Write(dims[:])
	_, _ = h.Write(b.Pix)
	return hex.EncodeToString(binary.BigEndian.AppendUint64(nil, h.Sum64()))
}

// String implements fmt.Stringer.
func (b Buffer) String() string {
	return fmt.Sprintf("%dx%d RGBA", b.Width, b.Height)
}

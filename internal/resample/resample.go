// Package resample resizes pixel buffers by exact rational ratios.
//
// Each axis is handled independently. For a source length n and target
// length m the ratio is reduced by g = gcd(n, m) to up = m/g and down = n/g.
// Every source sample is conceptually repeated up times and, of that
// stream, every down-th sample is kept, starting with the first. The result
// is nearest-neighbour selection biased toward the start of each group, with
// no floating point and no blending of neighbouring samples.
//
// The repeated stream is never materialised: the number of survivors
// contributed by each source sample is computed directly (see Ratio.Count),
// so auxiliary memory stays at one row regardless of how large up gets.
//
// This is not a general-purpose resize. Bilinear or Lanczos filtering lives
// in the imaging package (Resize).
package resample

import (
	"fmt"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixbuf"
)

// Resample returns a dstWidth x dstHeight copy of src.
//
// Width is resampled first, producing a dstWidth x src.Height intermediate,
// then height. A zero target dimension yields an empty buffer of the
// requested shape. A source with no pixels has nothing to select from and
// yields a transparent buffer of the requested shape.
//
// Resample panics if src is malformed or a target dimension is negative.
func Resample(src pixbuf.Buffer, dstWidth, dstHeight int) pixbuf.Buffer {
	src.MustValid()
	if dstWidth < 0 || dstHeight < 0 {
		panic(fmt.Sprintf("resample: negative target %dx%d", dstWidth, dstHeight))
	}
	if dstWidth == 0 || dstHeight == 0 || src.Empty() {
		return pixbuf.New(dstWidth, dstHeight)
	}
	if dstWidth == src.Width && dstHeight == src.Height {
		return src.Clone()
	}
	// At least one pass below allocates, so the result never aliases src.
	return resampleHeight(resampleWidth(src, dstWidth), dstHeight)
}

// resampleWidth resamples every row of src to width samples. It returns src
// itself when no work is needed; callers must not mutate the result in that
// case.
func resampleWidth(src pixbuf.Buffer, width int) pixbuf.Buffer {
	if src.Width == width {
		return src
	}
	r := NewRatio(src.Width, width)
	out := pixbuf.New(width, src.Height)
	for y := 0; y < src.Height; y++ {
		r.Expand(out.Row(y), src.Row(y), pixbuf.Channels)
	}
	return out
}

// resampleHeight treats whole rows as samples. Like resampleWidth it returns
// src itself when the height is unchanged.
func resampleHeight(src pixbuf.Buffer, height int) pixbuf.Buffer {
	if src.Height == height {
		return src
	}
	r := NewRatio(src.Height, height)
	out := pixbuf.New(src.Width, height)
	r.Expand(out.Pix, src.Pix, src.Width*pixbuf.Channels)
	return out
}

// Package seam shrinks pixel buffers by content-aware seam removal.
//
// A vertical seam is a connected top-to-bottom path with one pixel per row,
// where consecutive rows differ by at most one column. Carving repeatedly
// finds the seam of minimum cumulative energy and deletes it, so low-detail
// regions give way before edges and texture do.
//
// Horizontal seams are removed by rotating the buffer a quarter turn
// clockwise, removing vertical seams, and rotating back. There is only one
// seam search.
//
// # Determinism
//
// Ties are broken toward the left: the seam ends at the leftmost minimum of
// the bottom row and each step prefers the column to the left, then straight
// up, then to the right. Identical input always carves identically. After a
// rotation "left" corresponds to the bottom of the original buffer.
//
// # Performance
//
// Carving is slow by nature. Every removed seam rebuilds the full energy map
// and reruns the path search, so shrinking by n pixels costs n full passes
// over the buffer. It suits batch work, not interactive latency. Callers
// that need a bound should limit the number of seams they request.
package seam

import (
	"fmt"
	"runtime"

	"github.com/ironsheep/pixel-tools-mcp/internal/geometry"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixbuf"
)

// DefaultParallelThreshold is the pixel count from which energy rows are
// computed concurrently.
const DefaultParallelThreshold = 256 * 256

// Carver removes seams from pixel buffers. The zero value is ready to use.
type Carver struct {
	// Workers bounds the goroutines computing one energy map. Zero means
	// min(6, runtime.NumCPU()); one disables concurrency.
	Workers int

	// ParallelThreshold is the pixel count from which energy is computed
	// concurrently. Zero means DefaultParallelThreshold.
	ParallelThreshold int
}

func (c Carver) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return min(6, runtime.NumCPU())
}

func (c Carver) parallelThreshold() int {
	if c.ParallelThreshold > 0 {
		return c.ParallelThreshold
	}
	return DefaultParallelThreshold
}

// Carve shrinks src to targetWidth x targetHeight with a default Carver.
func Carve(src pixbuf.Buffer, targetWidth, targetHeight int) pixbuf.Buffer {
	return Carver{}.Carve(src, targetWidth, targetHeight)
}

// Carve shrinks src to targetWidth x targetHeight by removing vertical seams
// first and horizontal seams second. Targets larger than the source are
// clamped to it: carving never enlarges. When nothing needs removing the
// result is a copy of src.
//
// Carve panics if src is malformed or a target is negative.
func (c Carver) Carve(src pixbuf.Buffer, targetWidth, targetHeight int) pixbuf.Buffer {
	src.MustValid()
	if targetWidth < 0 || targetHeight < 0 {
		panic(fmt.Sprintf("seam: negative target %dx%d", targetWidth, targetHeight))
	}

	tw := min(targetWidth, src.Width)
	th := min(targetHeight, src.Height)
	if tw == src.Width && th == src.Height {
		return src.Clone()
	}

	out := src
	if dw := src.Width - tw; dw != 0 {
		out = c.RemoveVertical(src, dw)
	}
	if dh := out.Height - th; dh != 0 {
		out = geometry.Rotate270(c.RemoveVertical(geometry.Rotate90(out), dh))
	}
	return out
}

// RemoveVertical returns a copy of src with n vertical seams removed, one at
// a time. n must not exceed src.Width.
func (c Carver) RemoveVertical(src pixbuf.Buffer, n int) pixbuf.Buffer {
	src.MustValid()
	if n < 0 || n > src.Width {
		panic(fmt.Sprintf("seam: cannot remove %d seams from width %d", n, src.Width))
	}

	buf := src.Clone()
	for i := 0; i < n; i++ {
		if buf.Height == 0 {
			// No rows means no pixels to choose between.
			return pixbuf.New(buf.Width-(n-i), 0)
		}
		s := FindSeam(c.Energy(buf), buf.Width, buf.Height)
		buf = removeInPlace(buf, s)
	}
	return buf
}

// FindSeam returns the vertical seam of minimum total energy through a
// width x height energy map, as one column index per row from top to
// bottom. Width and height must be positive.
func FindSeam(energy []uint32, width, height int) []int {
	if width <= 0 || height <= 0 || len(energy) != width*height {
		panic(fmt.Sprintf("seam: energy map of %d values for %dx%d", len(energy), width, height))
	}

	// parent[y*width+x] is the step (-1, 0, +1) from row y-1 into (x, y).
	parent := make([]int8, width*height)
	prev := make([]uint64, width)
	cur := make([]uint64, width)
	for x := 0; x < width; x++ {
		prev[x] = uint64(energy[x])
	}

	for y := 1; y < height; y++ {
		for x := 0; x < width; x++ {
			bestX := max(x-1, 0)
			best := prev[bestX]
			for cand := bestX + 1; cand <= min(x+1, width-1); cand++ {
				if prev[cand] < best {
					best, bestX = prev[cand], cand
				}
			}
			cur[x] = best + uint64(energy[y*width+x])
			parent[y*width+x] = int8(bestX - x)
		}
		prev, cur = cur, prev
	}

	end := 0
	for x := 1; x < width; x++ {
		if prev[x] < prev[end] {
			end = x
		}
	}

	s := make([]int, height)
	s[height-1] = end
	for y := height - 1; y > 0; y-- {
		s[y-1] = s[y] + int(parent[y*width+s[y]])
	}
	return s
}

// RemoveSeam returns a copy of b without the pixels on seam s.
func RemoveSeam(b pixbuf.Buffer, s []int) pixbuf.Buffer {
	b.MustValid()
	return removeInPlace(b.Clone(), s)
}

// removeInPlace compacts each row of b over the seam pixel and returns b
// reshaped to Width-1. b's storage is reused, so b must be owned by the
// caller.
func removeInPlace(b pixbuf.Buffer, s []int) pixbuf.Buffer {
	if len(s) != b.Height {
		panic(fmt.Sprintf("seam: seam of length %d for height %d", len(s), b.Height))
	}
	rowLen := b.Width * pixbuf.Channels
	newRowLen := rowLen - pixbuf.Channels
	for y := 0; y < b.Height; y++ {
		x := s[y]
		if x < 0 || x >= b.Width {
			panic(fmt.Sprintf("seam: column %d outside width %d at row %d", x, b.Width, y))
		}
		src := y * rowLen
		dst := y * newRowLen
		cut := x * pixbuf.Channels
		// Rows only move toward the start, so forward copies never clobber
		// unread samples.
		copy(b.Pix[dst:dst+cut], b.Pix[src:src+cut])
		copy(b.Pix[dst+cut:dst+newRowLen], b.Pix[src+cut+pixbuf.Channels:src+rowLen])
	}
	return pixbuf.Buffer{
		Width:  b.Width - 1,
		Height: b.Height,
		Pix:    b.Pix[:newRowLen*b.Height],
	}
}

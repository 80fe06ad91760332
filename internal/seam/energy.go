package seam

import (
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixbuf"
)

// Energy returns the dual-gradient energy of every pixel of b, row-major.
//
// The energy of (x, y) is the squared RGB difference between its left and
// right neighbours plus the squared RGB difference between the neighbours
// above and below. Neighbours outside the buffer are clamped to the edge, so
// a border pixel is compared with itself along that axis. Alpha does not
// contribute.
//
// Rows are independent, so when b has at least ParallelThreshold pixels the
// rows are split into bands computed concurrently. The result does not
// depend on the number of workers.
func (c Carver) Energy(b pixbuf.Buffer) []uint32 {
	energy := make([]uint32, b.Width*b.Height)
	if b.Empty() {
		return energy
	}

	workers := c.workers()
	if workers == 1 || b.Width*b.Height < c.parallelThreshold() || b.Height < 2 {
		energyRows(b, energy, 0, b.Height)
		return energy
	}

	band := (b.Height + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for y0 := 0; y0 < b.Height; y0 += band {
		y0 := y0
		y1 := min(y0+band, b.Height)
		g.Go(func() error {
			energyRows(b, energy, y0, y1)
			return nil
		})
	}
	_ = g.Wait()
	return energy
}

// energyRows fills energy for rows [y0, y1).
func energyRows(b pixbuf.Buffer, energy []uint32, y0, y1 int) {
	w, h := b.Width, b.Height
	for y := y0; y < y1; y++ {
		up := b.Row(clamp(y-1, 0, h-1))
		row := b.Row(y)
		down := b.Row(clamp(y+1, 0, h-1))
		for x := 0; x < w; x++ {
			left := clamp(x-1, 0, w-1) * pixbuf.Channels
			right := clamp(x+1, 0, w-1) * pixbuf.Channels
			i := x * pixbuf.Channels

			var e uint32
			for ch := 0; ch < 3; ch++ {
				dx := int32(row[right+ch]) - int32(row[left+ch])
				dy := int32(down[i+ch]) - int32(up[i+ch])
				e += uint32(dx*dx + dy*dy)
			}
			energy[y*w+x] = e
		}
	}
}

// clamp constrains val to [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

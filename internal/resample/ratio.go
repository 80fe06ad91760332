package resample

import "fmt"

// Ratio maps Src samples onto Dst samples by upsampling by Up and then
// keeping every Down-th sample.
type Ratio struct {
	Src  int
	Dst  int
	Up   int
	Down int
}

// NewRatio reduces dst:src by their greatest common divisor. Both lengths
// must be positive.
func NewRatio(src, dst int) Ratio {
	if src <= 0 || dst <= 0 {
		panic(fmt.Sprintf("resample: ratio needs positive lengths, got %d -> %d", src, dst))
	}
	g := gcd(src, dst)
	return Ratio{Src: src, Dst: dst, Up: dst / g, Down: src / g}
}

// Count returns how many output samples source sample i produces.
//
// Sample i occupies positions [i*Up, (i+1)*Up) of the upsampled stream. A
// position survives when it is a multiple of Down, that is whenever the
// running count of upsampled samples reaches a multiple of Down, so the
// survivors in that range number ceil((i+1)*Up/Down) - ceil(i*Up/Down).
func (r Ratio) Count(i int) int {
	return ceilDiv((i+1)*r.Up, r.Down) - ceilDiv(i*r.Up, r.Down)
}

// Index returns the source sample selected for output sample j.
func (r Ratio) Index(j int) int {
	return j * r.Down / r.Up
}

// Expand writes the resampled sequence of src into dst. Samples are size
// bytes wide; src must hold Src samples and dst exactly Dst samples.
func (r Ratio) Expand(dst, src []byte, size int) {
	if len(src) != r.Src*size || len(dst) != r.Dst*size {
		panic(fmt.Sprintf("resample: expand %d->%d samples of %d bytes with src=%d dst=%d bytes",
			r.Src, r.Dst, size, len(src), len(dst)))
	}
	j := 0
	for i := 0; i < r.Src; i++ {
		sample := src[i*size : (i+1)*size]
		for n := r.Count(i); n > 0; n-- {
			copy(dst[j*size:(j+1)*size], sample)
			j++
		}
	}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

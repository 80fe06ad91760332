package seam

import (
	"bytes"
	"fmt"
	"image/color"
	"testing"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixbuf"
)

// fromFunc builds a width x height buffer from a per-pixel function.
func fromFunc(width, height int, f func(x, y int) color.NRGBA) pixbuf.Buffer {
	buf := pixbuf.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			buf.Set(x, y, f(x, y))
		}
	}
	return buf
}

// scrambled is a 4x4 buffer with no repeated pixels and no symmetric ties.
func scrambled() pixbuf.Buffer {
	return fromFunc(4, 4, func(x, y int) color.NRGBA {
		return color.NRGBA{
			R: uint8((x*53 + y*97) % 256),
			G: uint8((x*x*31 + y*7) % 256),
			B: uint8((x*y*59 + 13) % 256),
			A: 255,
		}
	})
}

// stripes is a 4x4 buffer with dark columns 1 and 2 between light columns.
func stripes() pixbuf.Buffer {
	return fromFunc(4, 4, func(x, y int) color.NRGBA {
		if x == 1 || x == 2 {
			return color.NRGBA{0, 0, 0, 255}
		}
		return color.NRGBA{200, 200, 200, 255}
	})
}

// rampWithRidge is 5x3: a red ramp 0,10,(ridge),30,40 where column 2 is a
// bright ridge. The two border columns tie for the lowest energy.
func rampWithRidge() pixbuf.Buffer {
	return fromFunc(5, 3, func(x, y int) color.NRGBA {
		if x == 2 {
			return color.NRGBA{250, 250, 250, 255}
		}
		return color.NRGBA{uint8(10 * x), 0, 0, 255}
	})
}

func TestEnergy(t *testing.T) {
	got := Carver{}.Energy(rampWithRidge())
	wantRow := []uint32{100, 187500, 400, 169100, 100}
	for y := 0; y < 3; y++ {
		for x, want := range wantRow {
			if got[y*5+x] != want {
				t.Errorf("energy(%d,%d) = %d, want %d", x, y, got[y*5+x], want)
			}
		}
	}
}

func TestEnergy_UniformIsZero(t *testing.T) {
	for _, v := range (Carver{}).Energy(pixbuf.Filled(6, 5, 9, 9, 9, 255)) {
		if v != 0 {
			t.Fatalf("uniform buffer has energy %d", v)
		}
	}
}

func TestEnergy_IgnoresAlpha(t *testing.T) {
	buf := pixbuf.Filled(3, 3, 40, 40, 40, 255)
	buf.Pix[buf.Offset(1, 1)+3] = 0
	for _, v := range (Carver{}).Energy(buf) {
		if v != 0 {
			t.Fatalf("alpha changed the energy: %d", v)
		}
	}
}

func TestEnergy_ParallelMatchesSequential(t *testing.T) {
	buf := fromFunc(37, 41, func(x, y int) color.NRGBA {
		return color.NRGBA{uint8(x * y), uint8(x ^ y), uint8(3*x + 5*y), 255}
	})
	seq := Carver{Workers: 1}.Energy(buf)

	for _, workers := range []int{2, 3, 8} {
		par := Carver{Workers: workers, ParallelThreshold: 1}.Energy(buf)
		for i := range seq {
			if seq[i] != par[i] {
				t.Fatalf("workers=%d: energy[%d] = %d, want %d", workers, i, par[i], seq[i])
			}
		}
	}
}

func TestFindSeam_PrefersLeftOnTies(t *testing.T) {
	// All zero: every path costs the same, so the leftmost straight seam wins.
	s := FindSeam(make([]uint32, 4*3), 4, 3)
	for y, x := range s {
		if x != 0 {
			t.Errorf("row %d: column %d, want 0", y, x)
		}
	}

	c := Carver{}
	buf := rampWithRidge()
	s = FindSeam(c.Energy(buf), buf.Width, buf.Height)
	for y, x := range s {
		if x != 0 {
			t.Errorf("ridge ramp row %d: column %d, want leftmost border 0", y, x)
		}
	}
}

func TestFindSeam_FollowsValley(t *testing.T) {
	// A diagonal valley of zeros through otherwise costly pixels.
	energy := []uint32{
		9, 0, 9, 9,
		9, 9, 0, 9,
		9, 9, 9, 0,
	}
	s := FindSeam(energy, 4, 3)
	want := []int{1, 2, 3}
	for y := range want {
		if s[y] != want[y] {
			t.Errorf("seam = %v, want %v", s, want)
			break
		}
	}
}

func TestFindSeam_Connected(t *testing.T) {
	buf := scrambled()
	c := Carver{}
	for i := 0; i < 3; i++ {
		s := FindSeam(c.Energy(buf), buf.Width, buf.Height)
		for y := 1; y < len(s); y++ {
			if d := s[y] - s[y-1]; d < -1 || d > 1 {
				t.Fatalf("seam %v jumps between rows %d and %d", s, y-1, y)
			}
		}
		buf = RemoveSeam(buf, s)
	}
}

func TestRemoveSeam(t *testing.T) {
	buf := fromFunc(3, 2, func(x, y int) color.NRGBA {
		return color.NRGBA{uint8(x), uint8(y), 0, 255}
	})
	got := RemoveSeam(buf, []int{1, 2})

	if got.Width != 2 || got.Height != 2 {
		t.Fatalf("dimensions: got %dx%d, want 2x2", got.Width, got.Height)
	}
	want := []byte{
		0, 0, 0, 255, 2, 0, 0, 255,
		0, 1, 0, 255, 1, 1, 0, 255,
	}
	if !bytes.Equal(got.Pix, want) {
		t.Errorf("Pix = %v, want %v", got.Pix, want)
	}
	if buf.Width != 3 || buf.At(1, 0) != (color.NRGBA{1, 0, 0, 255}) {
		t.Error("RemoveSeam mutated its input")
	}
}

func TestCarve_NoOp(t *testing.T) {
	src := scrambled()

	tests := []struct {
		name string
		w, h int
	}{
		{"same size", 4, 4},
		{"larger", 10, 9},
		{"wider only", 8, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Carve(src, tt.w, tt.h)
			if !got.Equal(src) {
				t.Error("carving to a size at or above the source must be the identity")
			}
			got.Pix[0]++
			if got.Equal(src) {
				t.Error("the identity result must not alias the source")
			}
		})
	}
}

func TestCarve_ShrinkContract(t *testing.T) {
	src := fromFunc(9, 7, func(x, y int) color.NRGBA {
		return color.NRGBA{uint8(x * 28), uint8(y * 36), uint8((x + y) * 15), 255}
	})

	for w := 0; w <= 9; w += 3 {
		for h := 0; h <= 7; h += 2 {
			t.Run(fmt.Sprintf("%dx%d", w, h), func(t *testing.T) {
				got := Carve(src, w, h)
				if got.Width != w || got.Height != h {
					t.Fatalf("dimensions: got %dx%d", got.Width, got.Height)
				}
				got.MustValid()
			})
		}
	}
}

func TestCarve_ClampsOneAxis(t *testing.T) {
	got := Carve(scrambled(), 2, 100)
	if got.Width != 2 || got.Height != 4 {
		t.Errorf("dimensions: got %dx%d, want 2x4", got.Width, got.Height)
	}
	got = Carve(scrambled(), 100, 1)
	if got.Width != 4 || got.Height != 1 {
		t.Errorf("dimensions: got %dx%d, want 4x1", got.Width, got.Height)
	}
}

func TestCarve_Golden4x4To3x2(t *testing.T) {
	tests := []struct {
		name string
		src  pixbuf.Buffer
		want []byte
	}{
		{
			name: "scrambled",
			src:  scrambled(),
			want: []byte{
				53, 31, 13, 255, 106, 124, 13, 255, 159, 23, 13, 255,
				150, 38, 72, 255, 203, 131, 131, 255, 0, 30, 190, 255,
			},
		},
		{
			name: "stripes",
			src:  stripes(),
			want: []byte{
				0, 0, 0, 255, 0, 0, 0, 255, 200, 200, 200, 255,
				0, 0, 0, 255, 0, 0, 0, 255, 200, 200, 200, 255,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Carve(tt.src, 3, 2)
			if got.Width != 3 || got.Height != 2 {
				t.Fatalf("dimensions: got %dx%d, want 3x2", got.Width, got.Height)
			}
			if len(got.Pix) != 24 {
				t.Fatalf("len(Pix) = %d, want 24", len(got.Pix))
			}
			if !bytes.Equal(got.Pix, tt.want) {
				t.Errorf("Pix =\n%v\nwant\n%v", got.Pix, tt.want)
			}
		})
	}
}

func TestCarve_RemovesLowEnergyBorderFirst(t *testing.T) {
	got := Carve(rampWithRidge(), 4, 3)
	want := fromFunc(4, 3, func(x, y int) color.NRGBA {
		return []color.NRGBA{
			{10, 0, 0, 255}, {250, 250, 250, 255}, {30, 0, 0, 255}, {40, 0, 0, 255},
		}[x]
	})
	if !got.Equal(want) {
		t.Errorf("Pix = %v, want %v", got.Pix, want.Pix)
	}
}

func TestCarve_KeepsPixelsFromSource(t *testing.T) {
	src := scrambled()
	seen := make(map[color.NRGBA]bool)
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			seen[src.At(x, y)] = true
		}
	}

	got := Carve(src, 2, 3)
	for y := 0; y < got.Height; y++ {
		for x := 0; x < got.Width; x++ {
			if !seen[got.At(x, y)] {
				t.Errorf("pixel (%d,%d) = %v does not come from the source", x, y, got.At(x, y))
			}
		}
	}
}

func TestCarve_Deterministic(t *testing.T) {
	src := fromFunc(24, 18, func(x, y int) color.NRGBA {
		return color.NRGBA{uint8(x * x), uint8(y * 13), uint8(x * y), 255}
	})
	a := Carve(src, 17, 11)
	b := Carve(src, 17, 11)
	if !a.Equal(b) {
		t.Error("two calls with identical input produced different output")
	}

	par := Carver{Workers: 4, ParallelThreshold: 1}.Carve(src, 17, 11)
	if !a.Equal(par) {
		t.Error("parallel energy changed the carved result")
	}
}

func TestCarve_DoesNotMutateInput(t *testing.T) {
	src := scrambled()
	before := src.Clone()
	_ = Carve(src, 2, 2)
	if !src.Equal(before) {
		t.Error("Carve mutated its input")
	}
}

func TestCarve_EmptyBuffers(t *testing.T) {
	tests := []struct {
		name         string
		src          pixbuf.Buffer
		w, h         int
		wantW, wantH int
	}{
		{"zero width", pixbuf.New(0, 5), 0, 2, 0, 2},
		{"zero height", pixbuf.New(6, 0), 3, 0, 3, 0},
		{"zero by zero", pixbuf.New(0, 0), 4, 4, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Carve(tt.src, tt.w, tt.h)
			if got.Width != tt.wantW || got.Height != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", got.Width, got.Height, tt.wantW, tt.wantH)
			}
			got.MustValid()
		})
	}
}

func TestCarve_ToNothing(t *testing.T) {
	got := Carve(scrambled(), 0, 0)
	if got.Width != 0 || got.Height != 0 || len(got.Pix) != 0 {
		t.Errorf("got %dx%d with %d bytes, want empty", got.Width, got.Height, len(got.Pix))
	}
}

func TestCarve_Panics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"negative target", func() { Carve(scrambled(), -1, 2) }},
		{"malformed buffer", func() {
			Carve(pixbuf.Buffer{Width: 3, Height: 3, Pix: make([]byte, 10)}, 1, 1)
		}},
		{"too many seams", func() { Carver{}.RemoveVertical(scrambled(), 5) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

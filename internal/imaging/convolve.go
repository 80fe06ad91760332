package imaging

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixbuf"
)

// Kernels lists the named filters accepted by ApplyKernel.
var Kernels = []string{
	"sharpen",
	"emboss",
	"edge",
	"sobel",
	"box_blur",
	"gaussian_blur",
	"median",
	"unsharp",
}

// ApplyKernel runs a named neighbourhood filter. radius applies to edge,
// box_blur, gaussian_blur, median and unsharp and defaults to 1 when not
// positive.
func ApplyKernel(b pixbuf.Buffer, name string, radius float64) (pixbuf.Buffer, error) {
	if radius <= 0 {
		radius = 1
	}

	switch strings.ToLower(name) {
	case "sharpen":
		return bildFilter(b, effect.Sharpen), nil
	case "emboss":
		return bildFilter(b, effect.Emboss), nil
	case "edge":
		return bildFilter(b, func(img image.Image) *image.RGBA { return effect.EdgeDetection(img, radius) }), nil
	case "sobel":
		// Sobel yields a gray image; the result is opaque.
		b.MustValid()
		if b.Empty() {
			return b.Clone(), nil
		}
		return pixbuf.FromImage(effect.Sobel(bildInput(b))), nil
	case "box_blur":
		return bildFilter(b, func(img image.Image) *image.RGBA { return blur.Box(img, radius) }), nil
	case "gaussian_blur":
		return bildFilter(b, func(img image.Image) *image.RGBA { return blur.Gaussian(img, radius) }), nil
	case "median":
		return bildFilter(b, func(img image.Image) *image.RGBA { return effect.Median(img, radius) }), nil
	case "unsharp":
		return bildFilter(b, func(img image.Image) *image.RGBA { return effect.UnsharpMask(img, radius, 1) }), nil
	}
	return pixbuf.Buffer{}, fmt.Errorf("unknown kernel %q (valid: %s)", name, strings.Join(Kernels, ", "))
}

// Convolve applies a custom square kernel given row-major in matrix. The
// kernel side must be odd. With normalize the weights are scaled to sum to
// one. bias is added to every output sample. Edges are extended and alpha
// is kept.
func Convolve(b pixbuf.Buffer, matrix []float64, normalize bool, bias float64) (pixbuf.Buffer, error) {
	size := int(math.Sqrt(float64(len(matrix))))
	if size*size != len(matrix) || size%2 == 0 {
		return pixbuf.Buffer{}, fmt.Errorf("kernel must be an odd square matrix, got %d values", len(matrix))
	}

	k := &convolution.Kernel{
		Matrix: append([]float64(nil), matrix...),
		Width:  size,
		Height: size,
	}
	var m convolution.Matrix = k
	if normalize {
		m = k.Normalized()
	}

	opts := &convolution.Options{Bias: bias, Wrap: false, KeepAlpha: true}
	return bildFilter(b, func(img image.Image) *image.RGBA {
		return convolution.Convolve(img, m, opts)
	}), nil
}

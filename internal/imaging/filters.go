package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixbuf"
)

// bildInput hands a copy of b to bild as an *image.RGBA holding straight
// samples.
func bildInput(b pixbuf.Buffer) *image.RGBA {
	c := b.Clone()
	return &image.RGBA{
		Pix:    c.Pix,
		Stride: c.Width * pixbuf.Channels,
		Rect:   image.Rect(0, 0, c.Width, c.Height),
	}
}

// fromBild reads bild output back without alpha conversion.
func fromBild(img *image.RGBA) pixbuf.Buffer {
	bounds := img.Bounds()
	out := pixbuf.New(bounds.Dx(), bounds.Dy())
	rowLen := out.Width * pixbuf.Channels
	for y := 0; y < out.Height; y++ {
		i := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(out.Pix[y*rowLen:(y+1)*rowLen], img.Pix[i:i+rowLen])
	}
	return out
}

// mapPixels applies fn to every pixel of a copy of b.
func mapPixels(b pixbuf.Buffer, fn func(color.RGBA) color.RGBA) pixbuf.Buffer {
	b.MustValid()
	if b.Empty() {
		return b.Clone()
	}
	return fromBild(adjust.Apply(bildInput(b), fn))
}

// bildFilter runs a bild filter that returns *image.RGBA over b.
func bildFilter(b pixbuf.Buffer, fn func(image.Image) *image.RGBA) pixbuf.Buffer {
	b.MustValid()
	if b.Empty() {
		return b.Clone()
	}
	return fromBild(fn(bildInput(b)))
}

func channelIndex(c byte) (int, bool) {
	i := strings.IndexByte("rgba", c)
	return i, i >= 0
}

// SwapChannels rearranges channels according to order, a four letter string
// over "rgba" naming the source channel of each output channel. "bgra"
// swaps red and blue; "rrra" spreads red across all colour channels.
func SwapChannels(b pixbuf.Buffer, order string) (pixbuf.Buffer, error) {
	order = strings.ToLower(order)
	if len(order) != pixbuf.Channels {
		return pixbuf.Buffer{}, fmt.Errorf("channel order must have 4 letters, got %q", order)
	}
	var src [pixbuf.Channels]int
	for i := 0; i < pixbuf.Channels; i++ {
		idx, ok := channelIndex(order[i])
		if !ok {
			return pixbuf.Buffer{}, fmt.Errorf("unknown channel %q in order %q", order[i], order)
		}
		src[i] = idx
	}

	return mapPixels(b, func(c color.RGBA) color.RGBA {
		in := [pixbuf.Channels]uint8{c.R, c.G, c.B, c.A}
		return color.RGBA{R: in[src[0]], G: in[src[1]], B: in[src[2]], A: in[src[3]]}
	}), nil
}

// AdjustChannel adds delta to one channel ("r", "g", "b" or "a"),
// saturating at 0 and 255.
func AdjustChannel(b pixbuf.Buffer, channel string, delta int) (pixbuf.Buffer, error) {
	channel = strings.ToLower(channel)
	if len(channel) != 1 {
		return pixbuf.Buffer{}, fmt.Errorf("unknown channel %q", channel)
	}
	idx, ok := channelIndex(channel[0])
	if !ok {
		return pixbuf.Buffer{}, fmt.Errorf("unknown channel %q", channel)
	}

	return mapPixels(b, func(c color.RGBA) color.RGBA {
		px := [pixbuf.Channels]uint8{c.R, c.G, c.B, c.A}
		px[idx] = uint8(max(0, min(int(px[idx])+delta, 255)))
		return color.RGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
	}), nil
}

// luma returns the Rec. 601 luma of c in 0-255.
func luma(c color.RGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// Grayscale replaces each colour by its Rec. 601 luma. Alpha is kept.
func Grayscale(b pixbuf.Buffer) pixbuf.Buffer {
	return mapPixels(b, func(c color.RGBA) color.RGBA {
		y := uint8(math.Round(luma(c)))
		return color.RGBA{R: y, G: y, B: y, A: c.A}
	})
}

// Sepia applies a sepia tone.
func Sepia(b pixbuf.Buffer) pixbuf.Buffer {
	return bildFilter(b, effect.Sepia)
}

// Invert inverts the colour channels. Alpha is kept.
func Invert(b pixbuf.Buffer) pixbuf.Buffer {
	return bildFilter(b, effect.Invert)
}

// Brightness shifts brightness by change in [-1, 1].
func Brightness(b pixbuf.Buffer, change float64) pixbuf.Buffer {
	return bildFilter(b, func(img image.Image) *image.RGBA { return adjust.Brightness(img, change) })
}

// Contrast scales contrast by change in [-1, 1].
func Contrast(b pixbuf.Buffer, change float64) pixbuf.Buffer {
	return bildFilter(b, func(img image.Image) *image.RGBA { return adjust.Contrast(img, change) })
}

// Gamma applies gamma correction. gamma must be positive; 1 is a no-op.
func Gamma(b pixbuf.Buffer, gamma float64) pixbuf.Buffer {
	return bildFilter(b, func(img image.Image) *image.RGBA { return adjust.Gamma(img, gamma) })
}

// Saturation scales saturation by change in [-1, 1].
func Saturation(b pixbuf.Buffer, change float64) pixbuf.Buffer {
	return bildFilter(b, func(img image.Image) *image.RGBA { return adjust.Saturation(img, change) })
}

func fromColorful(c colorful.Color, a uint8) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: a}
}

// Tint mixes every pixel toward tint by amount in [0, 1], interpolating in
// CIE L*a*b*. Alpha is kept.
func Tint(b pixbuf.Buffer, tint color.NRGBA, amount float64) pixbuf.Buffer {
	amount = max(0, min(amount, 1))
	target := toColorful(tint)
	return mapPixels(b, func(c color.RGBA) color.RGBA {
		px := toColorful(color.NRGBA(c))
		return fromColorful(px.BlendLab(target, amount), c.A)
	})
}

// Duotone maps luma onto the gradient from shadow (black) to highlight
// (white). Alpha is kept.
func Duotone(b pixbuf.Buffer, shadow, highlight color.NRGBA) pixbuf.Buffer {
	lo, hi := toColorful(shadow), toColorful(highlight)
	return mapPixels(b, func(c color.RGBA) color.RGBA {
		return fromColorful(lo.BlendLab(hi, luma(c)/255), c.A)
	})
}

// RotateHue turns the hue of every pixel by degrees around the HSL colour
// wheel. Grays are unaffected.
func RotateHue(b pixbuf.Buffer, degrees float64) pixbuf.Buffer {
	return mapPixels(b, func(c color.RGBA) color.RGBA {
		h, s, l := toColorful(color.NRGBA(c)).Hsl()
		h = math.Mod(h+degrees, 360)
		if h < 0 {
			h += 360
		}
		return fromColorful(colorful.Hsl(h, s, l), c.A)
	})
}

// ColorFilters maps the names accepted by ApplyColorFilter to their
// parameterless filters.
var ColorFilters = map[string]func(pixbuf.Buffer) pixbuf.Buffer{
	"grayscale": Grayscale,
	"sepia":     Sepia,
	"invert":    Invert,
}

// ColorFilterNames returns the keys of ColorFilters, sorted.
func ColorFilterNames() []string {
	names := make([]string, 0, len(ColorFilters))
	for name := range ColorFilters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyColorFilter runs the named filter from ColorFilters.
func ApplyColorFilter(b pixbuf.Buffer, name string) (pixbuf.Buffer, error) {
	fn, ok := ColorFilters[strings.ToLower(name)]
	if !ok {
		return pixbuf.Buffer{}, fmt.Errorf("unknown color filter %q (valid: %s)",
			name, strings.Join(ColorFilterNames(), ", "))
	}
	return fn(b), nil
}

package imaging

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"

	"github.com/anthonynsimon/bild/blend"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixbuf"
	"github.com/ironsheep/pixel-tools-mcp/internal/resample"
)

// Pad surrounds b with borders of the given widths filled with fill.
func Pad(b pixbuf.Buffer, top, right, bottom, left int, fill color.NRGBA) (pixbuf.Buffer, error) {
	b.MustValid()
	if top < 0 || right < 0 || bottom < 0 || left < 0 {
		return pixbuf.Buffer{}, fmt.Errorf("padding cannot be negative: top=%d right=%d bottom=%d left=%d",
			top, right, bottom, left)
	}

	w := b.Width + left + right
	h := b.Height + top + bottom
	if w == 0 || h == 0 {
		return pixbuf.New(w, h), nil
	}
	canvas := imaging.New(w, h, fill)
	if b.Empty() {
		return pixbuf.FromImage(canvas), nil
	}
	return pixbuf.FromImage(imaging.Paste(canvas, b.NRGBA(), image.Pt(left, top))), nil
}

// Watermark draws mark over base with its top-left corner at (x, y).
// opacity in [0, 1] scales the mark's alpha. Parts of the mark outside base
// are clipped.
func Watermark(base, mark pixbuf.Buffer, x, y int, opacity float64) pixbuf.Buffer {
	base.MustValid()
	mark.MustValid()
	if base.Empty() || mark.Empty() {
		return base.Clone()
	}
	opacity = max(0, min(opacity, 1))
	return pixbuf.FromImage(imaging.Overlay(base.NRGBA(), mark.NRGBA(), image.Pt(x, y), opacity))
}

// blendModes maps the names accepted by Blend to bild blend functions.
var blendModes = map[string]func(bg, fg image.Image) *image.RGBA{
	"normal":     blend.Normal,
	"multiply":   blend.Multiply,
	"screen":     blend.Screen,
	"overlay":    blend.Overlay,
	"darken":     blend.Darken,
	"lighten":    blend.Lighten,
	"add":        blend.Add,
	"difference": blend.Difference,
}

// BlendModes returns the modes accepted by Blend, sorted.
func BlendModes() []string {
	modes := make([]string, 0, len(blendModes))
	for mode := range blendModes {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	return modes
}

// Blend composites top over base using mode. top is first resampled to the
// size of base so differently sized layers line up.
func Blend(base, top pixbuf.Buffer, mode string) (pixbuf.Buffer, error) {
	fn, ok := blendModes[strings.ToLower(mode)]
	if !ok {
		return pixbuf.Buffer{}, fmt.Errorf("unknown blend mode %q (valid: %s)",
			mode, strings.Join(BlendModes(), ", "))
	}
	base.MustValid()
	top.MustValid()
	if base.Empty() {
		return base.Clone(), nil
	}

	fitted := resample.Resample(top, base.Width, base.Height)
	return fromBild(fn(bildInput(base), bildInput(fitted))), nil
}

// resizeFilters maps filter names to disintegration/imaging filters.
var resizeFilters = map[string]imaging.ResampleFilter{
	"nearest":    imaging.NearestNeighbor,
	"box":        imaging.Box,
	"linear":     imaging.Linear,
	"catmullrom": imaging.CatmullRom,
	"lanczos":    imaging.Lanczos,
}

// ResizeFilters returns the filter names accepted by Resize, sorted.
func ResizeFilters() []string {
	names := make([]string, 0, len(resizeFilters))
	for name := range resizeFilters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resize scales b with an interpolating filter (lanczos when filter is
// empty). A zero width or height preserves the aspect ratio. Unlike
// resample.Resample this blends neighbouring pixels.
func Resize(b pixbuf.Buffer, width, height int, filter string) (pixbuf.Buffer, error) {
	b.MustValid()
	if width < 0 || height < 0 || (width == 0 && height == 0) {
		return pixbuf.Buffer{}, fmt.Errorf("invalid resize target %dx%d", width, height)
	}
	if filter == "" {
		filter = "lanczos"
	}
	f, ok := resizeFilters[strings.ToLower(filter)]
	if !ok {
		return pixbuf.Buffer{}, fmt.Errorf("unknown resize filter %q", filter)
	}
	if b.Empty() {
		return pixbuf.Buffer{}, fmt.Errorf("cannot resize an image without pixels")
	}
	return pixbuf.FromImage(imaging.Resize(b.NRGBA(), width, height, f)), nil
}

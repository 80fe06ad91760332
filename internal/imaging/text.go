package imaging

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixbuf"
)

// Glyph metrics of basicfont.Face7x13.
const (
	GlyphWidth  = 7
	GlyphHeight = 13
)

// DrawText renders text onto a copy of b with the 7x13 bitmap font. (x, y)
// is the top-left corner of the first glyph cell. Text outside b is
// clipped.
func DrawText(b pixbuf.Buffer, text string, x, y int, c color.NRGBA) pixbuf.Buffer {
	b.MustValid()
	out := b.Clone()
	if out.Empty() || text == "" {
		return out
	}

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  out.NRGBA(),
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y + face.Ascent)},
	}
	d.DrawString(text)
	return out
}

// TextWidth returns the width in pixels of text drawn by DrawText.
func TextWidth(text string) int {
	return font.MeasureString(basicfont.Face7x13, text).Ceil()
}

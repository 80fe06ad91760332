package geometry

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixbuf"
)

// Crop extracts the rectangle (x1,y1)-(x2,y2) from b. The top-left corner is
// inclusive and the bottom-right corner exclusive.
func Crop(b pixbuf.Buffer, x1, y1, x2, y2 int) (pixbuf.Buffer, error) {
	b.MustValid()
	if x1 < 0 || y1 < 0 || x2 > b.Width || y2 > b.Height {
		return pixbuf.Buffer{}, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			x1, y1, x2, y2, b.Width, b.Height)
	}
	if x1 >= x2 || y1 >= y2 {
		return pixbuf.Buffer{}, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}
	return pixbuf.FromImage(imaging.Crop(b.NRGBA(), image.Rect(x1, y1, x2, y2))), nil
}

// Regions lists the names accepted by CropRegion.
var Regions = []string{
	"top-left", "top-right", "bottom-left", "bottom-right",
	"top-half", "bottom-half", "left-half", "right-half", "center",
}

// CropRegion extracts a named part of b. "center" is the middle half in both
// directions; the other names split b at its midpoint.
func CropRegion(b pixbuf.Buffer, region string) (pixbuf.Buffer, error) {
	w, h := b.Width, b.Height
	midX, midY := w/2, h/2

	var x1, y1, x2, y2 int
	switch region {
	case "top-left":
		x1, y1, x2, y2 = 0, 0, midX, midY
	case "top-right":
		x1, y1, x2, y2 = midX, 0, w, midY
	case "bottom-left":
		x1, y1, x2, y2 = 0, midY, midX, h
	case "bottom-right":
		x1, y1, x2, y2 = midX, midY, w, h
	case "top-half":
		x1, y1, x2, y2 = 0, 0, w, midY
	case "bottom-half":
		x1, y1, x2, y2 = 0, midY, w, h
	case "left-half":
		x1, y1, x2, y2 = 0, 0, midX, h
	case "right-half":
		x1, y1, x2, y2 = midX, 0, w, h
	case "center":
		qW, qH := w/4, h/4
		x1, y1, x2, y2 = qW, qH, w-qW, h-qH
	default:
		return pixbuf.Buffer{}, fmt.Errorf("unknown region: %s", region)
	}

	return Crop(b, x1, y1, x2, y2)
}

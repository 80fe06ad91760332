package imaging

import (
	"math"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixbuf"
)

// Size is a width/height pair.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CompareResult contains image comparison information
type CompareResult struct {
	Identical        bool    `json:"identical"`
	SameSize         bool    `json:"same_size"`
	SimilarityScore  float64 `json:"similarity_score"`
	PixelsDifferent  int     `json:"pixels_different"`
	TotalPixels      int     `json:"total_pixels"`
	AverageColorDiff float64 `json:"average_color_diff"`
	Size1            Size    `json:"size1"`
	Size2            Size    `json:"size2"`
	Digest1          string  `json:"digest1"`
	Digest2          string  `json:"digest2"`
}

// DiffThreshold is the mean per-channel RGBA difference above which two
// pixels count as different.
const DiffThreshold = 10

// Compare compares a and b pixel by pixel over their overlapping top-left
// area.
func Compare(a, b pixbuf.Buffer) *CompareResult {
	a.MustValid()
	b.MustValid()

	w := min(a.Width, b.Width)
	h := min(a.Height, b.Height)
	totalPixels := w * h
	pixelsDifferent := 0
	var totalColorDiff float64

	for y := 0; y < h; y++ {
		rowA, rowB := a.Row(y), b.Row(y)
		for x := 0; x < w; x++ {
			i := x * pixbuf.Channels
			var sum int
			for ch := 0; ch < pixbuf.Channels; ch++ {
				sum += absDiff(rowA[i+ch], rowB[i+ch])
			}
			diff := float64(sum) / pixbuf.Channels

			totalColorDiff += diff
			if diff > DiffThreshold {
				pixelsDifferent++
			}
		}
	}

	similarity := 1.0
	avgColorDiff := 0.0
	if totalPixels > 0 {
		similarity = 1.0 - float64(pixelsDifferent)/float64(totalPixels)
		avgColorDiff = totalColorDiff / float64(totalPixels)
	}

	return &CompareResult{
		Identical:        a.Equal(b),
		SameSize:         a.Width == b.Width && a.Height == b.Height,
		SimilarityScore:  math.Round(similarity*1000) / 1000,
		PixelsDifferent:  pixelsDifferent,
		TotalPixels:      totalPixels,
		AverageColorDiff: math.Round(avgColorDiff*100) / 100,
		Size1:            Size{Width: a.Width, Height: a.Height},
		Size2:            Size{Width: b.Width, Height: b.Height},
		Digest1:          a.Digest(),
		Digest2:          b.Digest(),
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

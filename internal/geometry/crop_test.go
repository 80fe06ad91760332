package geometry

import (
	"image/color"
	"testing"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixbuf"
)

// quadrants returns a buffer with red, green, blue and white quadrants.
func quadrants(width, height int) pixbuf.Buffer {
	buf := pixbuf.New(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.NRGBA
			switch {
			case x < width/2 && y < height/2:
				c = color.NRGBA{255, 0, 0, 255}
			case x >= width/2 && y < height/2:
				c = color.NRGBA{0, 255, 0, 255}
			case x < width/2:
				c = color.NRGBA{0, 0, 255, 255}
			default:
				c = color.NRGBA{255, 255, 255, 255}
			}
			buf.Set(x, y, c)
		}
	}
	return buf
}

func TestCrop(t *testing.T) {
	src := numbered(10, 8)

	got, err := Crop(src, 2, 3, 6, 8)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if got.Width != 4 || got.Height != 5 {
		t.Fatalf("dimensions: got %dx%d, want 4x5", got.Width, got.Height)
	}
	if got.At(0, 0) != src.At(2, 3) || got.At(3, 4) != src.At(5, 7) {
		t.Error("cropped samples do not match the source region")
	}
}

func TestCrop_FullImage(t *testing.T) {
	src := numbered(5, 5)
	got, err := Crop(src, 0, 0, 5, 5)
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}
	if !got.Equal(src) {
		t.Error("full-image crop should equal the source")
	}
}

func TestCrop_OutOfBounds(t *testing.T) {
	src := numbered(10, 10)

	tests := []struct {
		name           string
		x1, y1, x2, y2 int
	}{
		{"negative x1", -1, 0, 5, 5},
		{"negative y1", 0, -1, 5, 5},
		{"x2 past width", 0, 0, 11, 5},
		{"y2 past height", 0, 0, 5, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(src, tt.x1, tt.y1, tt.x2, tt.y2); err == nil {
				t.Error("expected error for out of bounds region")
			}
		})
	}
}

func TestCrop_InvalidRegion(t *testing.T) {
	src := numbered(10, 10)

	tests := []struct {
		name           string
		x1, y1, x2, y2 int
	}{
		{"x1 equals x2", 5, 0, 5, 5},
		{"y1 equals y2", 0, 5, 5, 5},
		{"x1 greater than x2", 6, 0, 5, 5},
		{"y1 greater than y2", 0, 6, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Crop(src, tt.x1, tt.y1, tt.x2, tt.y2); err == nil {
				t.Error("expected error for invalid region")
			}
		})
	}
}

func TestCropRegion(t *testing.T) {
	src := quadrants(100, 100)

	tests := []struct {
		region         string
		wantW, wantH   int
		wantColorAt0_0 color.NRGBA
	}{
		{"top-left", 50, 50, color.NRGBA{255, 0, 0, 255}},
		{"top-right", 50, 50, color.NRGBA{0, 255, 0, 255}},
		{"bottom-left", 50, 50, color.NRGBA{0, 0, 255, 255}},
		{"bottom-right", 50, 50, color.NRGBA{255, 255, 255, 255}},
		{"top-half", 100, 50, color.NRGBA{255, 0, 0, 255}},
		{"bottom-half", 100, 50, color.NRGBA{0, 0, 255, 255}},
		{"left-half", 50, 100, color.NRGBA{255, 0, 0, 255}},
		{"right-half", 50, 100, color.NRGBA{0, 255, 0, 255}},
		{"center", 50, 50, color.NRGBA{255, 0, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.region, func(t *testing.T) {
			got, err := CropRegion(src, tt.region)
			if err != nil {
				t.Fatalf("CropRegion failed: %v", err)
			}
			if got.Width != tt.wantW || got.Height != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d", got.Width, got.Height, tt.wantW, tt.wantH)
			}
			if got.At(0, 0) != tt.wantColorAt0_0 {
				t.Errorf("top-left pixel: got %v, want %v", got.At(0, 0), tt.wantColorAt0_0)
			}
		})
	}
}

func TestCropRegion_OddDimensions(t *testing.T) {
	src := quadrants(101, 99)

	got, err := CropRegion(src, "bottom-right")
	if err != nil {
		t.Fatalf("CropRegion failed: %v", err)
	}
	if got.Width != 51 || got.Height != 50 {
		t.Errorf("dimensions: got %dx%d, want 51x50", got.Width, got.Height)
	}
}

func TestCropRegion_Unknown(t *testing.T) {
	if _, err := CropRegion(quadrants(10, 10), "middle-ish"); err == nil {
		t.Error("expected error for unknown region")
	}
}

func TestRegions_AllAccepted(t *testing.T) {
	src := quadrants(20, 20)
	for _, r := range Regions {
		if _, err := CropRegion(src, r); err != nil {
			t.Errorf("region %q rejected: %v", r, err)
		}
	}
}

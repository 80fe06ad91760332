package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	webp "github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/pixel-tools-mcp/internal/pixbuf"
)

// Format names an encoded image format.
type Format string

// Supported formats.
const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
	WebP Format = "webp"
	AVIF Format = "avif"
)

// DefaultQuality is used for lossy formats when no quality is given.
const DefaultQuality = 90

const avifSpeed = 6

var (
	// ErrUnsupportedFormat is returned for formats that cannot be decoded or
	// encoded.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrTooLarge is returned when an image exceeds the configured pixel
	// limit.
	ErrTooLarge = errors.New("image exceeds pixel limit")

	// ErrEmptyImage is returned when encoding a buffer without pixels.
	ErrEmptyImage = errors.New("cannot encode an image without pixels")
)

// ParseFormat maps a format name such as "jpg" or "PNG" to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	case "webp":
		return WebP, nil
	case "avif":
		return AVIF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// FormatFromPath determines the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// MimeType returns the media type of f.
func (f Format) MimeType() string {
	return "image/" + string(f)
}

// imagingFormat maps f to the formats disintegration/imaging encodes itself.
func (f Format) imagingFormat() (imaging.Format, bool) {
	switch f {
	case PNG:
		return imaging.PNG, true
	case JPEG:
		return imaging.JPEG, true
	case GIF:
		return imaging.GIF, true
	case BMP:
		return imaging.BMP, true
	case TIFF:
		return imaging.TIFF, true
	}
	return 0, false
}

// CheckPixels returns ErrTooLarge when a width x height image holds more
// than maxPixels pixels. A non-positive maxPixels disables the check.
func CheckPixels(width, height, maxPixels int) error {
	if maxPixels <= 0 || width <= 0 || height <= 0 {
		return nil
	}
	if height > maxPixels/width {
		return fmt.Errorf("%w: %dx%d is more than %d pixels", ErrTooLarge, width, height, maxPixels)
	}
	return nil
}

// Decode reads an encoded image from r. When maxPixels is positive, images
// whose declared width*height exceed it are rejected with ErrTooLarge
// before their pixel data is decoded. JPEG orientation tags are applied.
func Decode(r io.Reader, maxPixels int) (pixbuf.Buffer, Format, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return pixbuf.Buffer{}, "", fmt.Errorf("failed to read image: %w", err)
	}

	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return pixbuf.Buffer{}, "", ErrUnsupportedFormat
		}
		return pixbuf.Buffer{}, "", fmt.Errorf("failed to decode image header: %w", err)
	}
	format, err := ParseFormat(name)
	if err != nil {
		return pixbuf.Buffer{}, "", err
	}
	if err := CheckPixels(cfg.Width, cfg.Height, maxPixels); err != nil {
		return pixbuf.Buffer{}, format, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return pixbuf.Buffer{}, format, fmt.Errorf("failed to decode image: %w", err)
	}
	return pixbuf.FromImage(img), format, nil
}

// Encode writes b to w in format f. quality applies to JPEG, WebP and AVIF
// and is clamped to 1-100; zero selects DefaultQuality.
func Encode(w io.Writer, b pixbuf.Buffer, f Format, quality int) error {
	b.MustValid()
	if b.Empty() {
		return ErrEmptyImage
	}
	if quality == 0 {
		quality = DefaultQuality
	}
	quality = max(1, min(quality, 100))

	img := b.NRGBA()
	switch f {
	case WebP:
		if err := webp.Encode(w, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return fmt.Errorf("failed to encode webp: %w", err)
		}
		return nil
	case AVIF:
		opts := avif.Options{Quality: quality, QualityAlpha: quality, Speed: avifSpeed}
		if err := avif.Encode(w, img, opts); err != nil {
			return fmt.Errorf("failed to encode avif: %w", err)
		}
		return nil
	}

	format, ok := f.imagingFormat()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
	if err := imaging.Encode(w, img, format, imaging.JPEGQuality(quality)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", f, err)
	}
	return nil
}

// Save encodes b into path, choosing the format from the extension.
func Save(path string, b pixbuf.Buffer, quality int) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Encode(f, b, format, quality); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// EncodeBase64PNG encodes b as PNG and returns it base64 encoded.
func EncodeBase64PNG(b pixbuf.Buffer) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, b, PNG, 0); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ImageResult describes a produced image. The pixels are either inlined as
// base64 PNG or written to OutputPath. Images without pixels carry only
// their dimensions and digest.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Digest      string `json:"digest"`
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
	OutputPath  string `json:"output_path,omitempty"`
}

// NewResult builds the ImageResult for b. When outputPath is set the image
// is saved there instead of being inlined.
func NewResult(b pixbuf.Buffer, outputPath string, quality int) (*ImageResult, error) {
	result := &ImageResult{
		Width:  b.Width,
		Height: b.Height,
		Digest: b.Digest(),
	}
	if b.Empty() {
		return result, nil
	}

	if outputPath != "" {
		format, err := FormatFromPath(outputPath)
		if err != nil {
			return nil, err
		}
		if err := Save(outputPath, b, quality); err != nil {
			return nil, err
		}
		result.OutputPath = outputPath
		result.MimeType = format.MimeType()
		return result, nil
	}

	encoded, err := EncodeBase64PNG(b)
	if err != nil {
		return nil, err
	}
	result.ImageBase64 = encoded
	result.MimeType = PNG.MimeType()
	return result, nil
}

package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixbuf"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"png", PNG, false},
		{"PNG", PNG, false},
		{".jpg", JPEG, false},
		{"jpeg", JPEG, false},
		{"gif", GIF, false},
		{"bmp", BMP, false},
		{"tif", TIFF, false},
		{"tiff", TIFF, false},
		{"webp", WebP, false},
		{"avif", AVIF, false},
		{"xcf", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("expected ErrUnsupportedFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	if f, err := FormatFromPath("/tmp/out.WebP"); err != nil || f != WebP {
		t.Errorf("got %s, %v", f, err)
	}
	if _, err := FormatFromPath("/tmp/noext"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if JPEG.MimeType() != "image/jpeg" {
		t.Errorf("MimeType: got %s", JPEG.MimeType())
	}
}

func TestEncodeDecode_PNGIsLossless(t *testing.T) {
	src := quadrantBuffer(16, 8)
	src.Pix[3] = 77 // one translucent pixel

	var buf bytes.Buffer
	if err := Encode(&buf, src, PNG, 0); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	got, format, err := Decode(&buf, 0)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if format != PNG {
		t.Errorf("format: got %s, want png", format)
	}
	if !got.Equal(src) {
		t.Error("PNG round trip changed pixels")
	}
}

func TestEncodeDecode_AllFormats(t *testing.T) {
	src := quadrantBuffer(32, 24)

	for _, f := range []Format{PNG, JPEG, GIF, BMP, TIFF, WebP, AVIF} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, f, 80); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if buf.Len() == 0 {
				t.Fatal("no bytes written")
			}

			got, format, err := Decode(&buf, 0)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if format != f {
				t.Errorf("format: got %s, want %s", format, f)
			}
			if got.Width != 32 || got.Height != 24 {
				t.Errorf("dimensions: got %dx%d, want 32x24", got.Width, got.Height)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	if _, _, err := Decode(bytes.NewReader([]byte("plain text")), 0); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, pixbuf.Filled(30, 30, 0, 0, 0, 255), PNG, 0); err != nil {
		t.Fatal(err)
	}
	_, format, err := Decode(&buf, 899)
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
	if format != PNG {
		t.Errorf("format should still be reported, got %q", format)
	}
}

func TestCheckPixels(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		limit         int
		wantErr       bool
	}{
		{"within limit", 10, 10, 100, false},
		{"one over", 101, 1, 100, true},
		{"disabled", 1 << 20, 1 << 20, 0, false},
		{"empty", 0, 1 << 40, 100, false},
		{"product wraps to zero", 1 << 32, 1 << 32, 100, true},
		{"product wraps negative", math.MaxInt, 3, 1 << 26, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPixels(tt.width, tt.height, tt.limit)
			if tt.wantErr != errors.Is(err, ErrTooLarge) {
				t.Errorf("CheckPixels(%d, %d, %d) = %v, wantErr %v", tt.width, tt.height, tt.limit, err, tt.wantErr)
			}
		})
	}
}

func TestEncode_Errors(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, pixbuf.New(0, 5), PNG, 0); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage, got %v", err)
	}
	if err := Encode(&buf, pixbuf.New(2, 2), Format("xcf"), 0); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	src := quadrantBuffer(10, 10)

	path := filepath.Join(dir, "sub", "out.png")
	if err := Save(path, src, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	cache := NewBufferCache(0)
	got, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !got.Equal(src) {
		t.Error("saved PNG differs from source")
	}

	bad := filepath.Join(dir, "out.xcf")
	if err := Save(bad, src, 0); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := os.Stat(bad); !os.IsNotExist(err) {
		t.Error("no file should be left behind for an unsupported format")
	}
}

func TestNewResult(t *testing.T) {
	src := quadrantBuffer(8, 6)

	t.Run("inline png", func(t *testing.T) {
		res, err := NewResult(src, "", 0)
		if err != nil {
			t.Fatalf("NewResult failed: %v", err)
		}
		if res.Width != 8 || res.Height != 6 || res.Digest != src.Digest() {
			t.Errorf("unexpected result header: %+v", res)
		}
		if res.MimeType != "image/png" || res.OutputPath != "" {
			t.Errorf("unexpected result: %+v", res)
		}
		data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
		if err != nil {
			t.Fatalf("invalid base64: %v", err)
		}
		got, _, err := Decode(bytes.NewReader(data), 0)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if !got.Equal(src) {
			t.Error("inline image differs from source")
		}
	})

	t.Run("output path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.webp")
		res, err := NewResult(src, path, 90)
		if err != nil {
			t.Fatalf("NewResult failed: %v", err)
		}
		if res.OutputPath != path || res.ImageBase64 != "" || res.MimeType != "image/webp" {
			t.Errorf("unexpected result: %+v", res)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("output file missing: %v", err)
		}
	})

	t.Run("empty buffer", func(t *testing.T) {
		res, err := NewResult(pixbuf.New(0, 4), "", 0)
		if err != nil {
			t.Fatalf("NewResult failed: %v", err)
		}
		if res.Width != 0 || res.Height != 4 || res.ImageBase64 != "" {
			t.Errorf("unexpected result: %+v", res)
		}
	})
}

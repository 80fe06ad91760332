package server

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/ironsheep/pixel-tools-mcp/internal/imaging"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixbuf"
)

// === Color Handlers ===

type imageChannelsArgs struct {
	Path    string `json:"path"`
	Order   string `json:"order,omitempty"`
	Channel string `json:"channel,omitempty"`
	Delta   int    `json:"delta,omitempty"`
	outputArgs
}

func (s *Server) handleImageChannels(args json.RawMessage) (interface{}, error) {
	var a imageChannelsArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Order == "" && a.Channel == "" {
		return nil, fmt.Errorf("either order or channel is required")
	}
	img, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}

	if a.Order != "" {
		if img, err = imaging.SwapChannels(img, a.Order); err != nil {
			return nil, err
		}
	}
	if a.Channel != "" {
		if img, err = imaging.AdjustChannel(img, a.Channel, a.Delta); err != nil {
			return nil, err
		}
	}
	return s.result(img, a.outputArgs)
}

type imageColorFilterArgs struct {
	Path   string   `json:"path"`
	Filter string   `json:"filter"`
	Amount *float64 `json:"amount,omitempty"`
	outputArgs
}

func (s *Server) handleImageColorFilter(args json.RawMessage) (interface{}, error) {
	var a imageColorFilterArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Filter == "" {
		return nil, fmt.Errorf("filter is required")
	}
	img, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}

	amount := func(def float64) float64 {
		if a.Amount == nil {
			return def
		}
		return *a.Amount
	}

	var out pixbuf.Buffer
	switch strings.ToLower(a.Filter) {
	case "brightness":
		out = imaging.Brightness(img, clampUnit(amount(0)))
	case "contrast":
		out = imaging.Contrast(img, clampUnit(amount(0)))
	case "saturation":
		out = imaging.Saturation(img, clampUnit(amount(0)))
	case "gamma":
		g := amount(1)
		if g <= 0 {
			return nil, fmt.Errorf("gamma must be positive, got %g", g)
		}
		out = imaging.Gamma(img, g)
	case "hue":
		out = imaging.RotateHue(img, amount(0))
	default:
		if out, err = imaging.ApplyColorFilter(img, a.Filter); err != nil {
			return nil, err
		}
	}
	return s.result(out, a.outputArgs)
}

func clampUnit(v float64) float64 {
	return max(-1, min(v, 1))
}

type imageTintArgs struct {
	Path   string   `json:"path"`
	Color  string   `json:"color"`
	Amount *float64 `json:"amount,omitempty"`
	outputArgs
}

func (s *Server) handleImageTint(args json.RawMessage) (interface{}, error) {
	var a imageTintArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	tint, err := imaging.ParseHexColor(a.Color)
	if err != nil {
		return nil, fmt.Errorf("invalid color: %w", err)
	}
	amount := 0.5
	if a.Amount != nil {
		amount = *a.Amount
	}
	img, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.result(imaging.Tint(img, tint, amount), a.outputArgs)
}

type imageDuotoneArgs struct {
	Path      string `json:"path"`
	Shadow    string `json:"shadow"`
	Highlight string `json:"highlight"`
	outputArgs
}

func (s *Server) handleImageDuotone(args json.RawMessage) (interface{}, error) {
	var a imageDuotoneArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	shadow, err := imaging.ParseHexColor(a.Shadow)
	if err != nil {
		return nil, fmt.Errorf("invalid shadow: %w", err)
	}
	highlight, err := imaging.ParseHexColor(a.Highlight)
	if err != nil {
		return nil, fmt.Errorf("invalid highlight: %w", err)
	}
	img, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.result(imaging.Duotone(img, shadow, highlight), a.outputArgs)
}

// === Filter and Compositing Handlers ===

type imageConvolveArgs struct {
	Path      string    `json:"path"`
	Kernel    string    `json:"kernel,omitempty"`
	Matrix    []float64 `json:"matrix,omitempty"`
	Radius    float64   `json:"radius,omitempty"`
	Normalize bool      `json:"normalize,omitempty"`
	Bias      float64   `json:"bias,omitempty"`
	outputArgs
}

func (s *Server) handleImageConvolve(args json.RawMessage) (interface{}, error) {
	var a imageConvolveArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if (a.Kernel == "") == (len(a.Matrix) == 0) {
		return nil, fmt.Errorf("exactly one of kernel or matrix is required")
	}
	img, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}

	var out pixbuf.Buffer
	if a.Kernel != "" {
		out, err = imaging.ApplyKernel(img, a.Kernel, a.Radius)
	} else {
		out, err = imaging.Convolve(img, a.Matrix, a.Normalize, a.Bias)
	}
	if err != nil {
		return nil, err
	}
	return s.result(out, a.outputArgs)
}

type imagePadArgs struct {
	Path   string `json:"path"`
	Top    int    `json:"top"`
	Right  int    `json:"right"`
	Bottom int    `json:"bottom"`
	Left   int    `json:"left"`
	Color  string `json:"color"`
	outputArgs
}

func (s *Server) handleImagePad(args json.RawMessage) (interface{}, error) {
	var a imagePadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = "#00000000"
	}
	fill, err := imaging.ParseHexColor(a.Color)
	if err != nil {
		return nil, fmt.Errorf("invalid color: %w", err)
	}
	img, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	if err := s.checkPixels(paddedSize(img.Width, a.Left, a.Right), paddedSize(img.Height, a.Top, a.Bottom)); err != nil {
		return nil, err
	}
	out, err := imaging.Pad(img, a.Top, a.Right, a.Bottom, a.Left, fill)
	if err != nil {
		return nil, err
	}
	return s.result(out, a.outputArgs)
}

// paddedSize returns n+a+b, saturating at math.MaxInt. Negative padding is
// left for imaging.Pad to reject.
func paddedSize(n, a, b int) int {
	if a < 0 || b < 0 {
		return n
	}
	if a > math.MaxInt-n || b > math.MaxInt-n-a {
		return math.MaxInt
	}
	return n + a + b
}

type imageWatermarkArgs struct {
	Path     string   `json:"path"`
	MarkPath string   `json:"mark_path"`
	X        int      `json:"x"`
	Y        int      `json:"y"`
	Opacity  *float64 `json:"opacity,omitempty"`
	outputArgs
}

func (s *Server) handleImageWatermark(args json.RawMessage) (interface{}, error) {
	var a imageWatermarkArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	opacity := 0.5
	if a.Opacity != nil {
		opacity = *a.Opacity
	}
	base, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	mark, err := s.load(a.MarkPath)
	if err != nil {
		return nil, fmt.Errorf("mark: %w", err)
	}
	return s.result(imaging.Watermark(base, mark, a.X, a.Y, opacity), a.outputArgs)
}

type imageBlendArgs struct {
	Path    string `json:"path"`
	TopPath string `json:"top_path"`
	Mode    string `json:"mode"`
	outputArgs
}

func (s *Server) handleImageBlend(args json.RawMessage) (interface{}, error) {
	var a imageBlendArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Mode == "" {
		a.Mode = "normal"
	}
	base, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	top, err := s.load(a.TopPath)
	if err != nil {
		return nil, fmt.Errorf("top layer: %w", err)
	}
	out, err := imaging.Blend(base, top, a.Mode)
	if err != nil {
		return nil, err
	}
	return s.result(out, a.outputArgs)
}

type imageTextArgs struct {
	Path  string `json:"path"`
	Text  string `json:"text"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color string `json:"color"`
	outputArgs
}

func (s *Server) handleImageText(args json.RawMessage) (interface{}, error) {
	var a imageTextArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Text == "" {
		return nil, fmt.Errorf("text is required")
	}
	if a.Color == "" {
		a.Color = "#000000"
	}
	ink, err := imaging.ParseHexColor(a.Color)
	if err != nil {
		return nil, fmt.Errorf("invalid color: %w", err)
	}
	img, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.result(imaging.DrawText(img, a.Text, a.X, a.Y, ink), a.outputArgs)
}

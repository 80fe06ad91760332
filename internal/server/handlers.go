package server

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/ironsheep/pixel-tools-mcp/internal/geometry"
	"github.com/ironsheep/pixel-tools-mcp/internal/imaging"
	"github.com/ironsheep/pixel-tools-mcp/internal/pixbuf"
	"github.com/ironsheep/pixel-tools-mcp/internal/resample"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_resample").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors, including panics raised by a tool, return a
// JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.safeExecuteTool(params.Name, params.Arguments)
	if err != nil {
		s.logDebug("tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// safeExecuteTool runs executeTool and turns a panic into an error so one
// bad call cannot stop the server.
func (s *Server) safeExecuteTool(name string, args json.RawMessage) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Tool %s panicked: %v\n%s", name, r, debug.Stack())
			result, err = nil, fmt.Errorf("tool %s panicked: %v", name, r)
		}
	}()
	return s.executeTool(name, args)
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_compare":
		return s.handleImageCompare(args)

	// Size Operations
	case "image_resample":
		return s.handleImageResample(args)
	case "image_seam_carve":
		return s.handleImageSeamCarve(args)
	case "image_resize":
		return s.handleImageResize(args)

	// Geometry
	case "image_rotate":
		return s.handleImageRotate(args)
	case "image_flip":
		return s.handleImageFlip(args)
	case "image_shear":
		return s.handleImageShear(args)
	case "image_crop":
		return s.handleImageCrop(args)
	case "image_crop_quadrant":
		return s.handleImageCropQuadrant(args)

	// Color
	case "image_channels":
		return s.handleImageChannels(args)
	case "image_color_filter":
		return s.handleImageColorFilter(args)
	case "image_tint":
		return s.handleImageTint(args)
	case "image_duotone":
		return s.handleImageDuotone(args)

	// Filters and Compositing
	case "image_convolve":
		return s.handleImageConvolve(args)
	case "image_pad":
		return s.handleImagePad(args)
	case "image_watermark":
		return s.handleImageWatermark(args)
	case "image_blend":
		return s.handleImageBlend(args)
	case "image_text":
		return s.handleImageText(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Shared helpers ===

// outputArgs is embedded by every tool that produces an image.
type outputArgs struct {
	OutputPath string `json:"output_path,omitempty"`
}

// unmarshalArgs decodes tool arguments, treating missing arguments as an
// empty object.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// load reads the image at path through the cache.
func (s *Server) load(path string) (pixbuf.Buffer, error) {
	if path == "" {
		return pixbuf.Buffer{}, fmt.Errorf("path is required")
	}
	return s.cache.Load(path)
}

// checkPixels rejects outputs larger than limits.max_pixels.
func (s *Server) checkPixels(width, height int) error {
	return imaging.CheckPixels(width, height, s.cfg.Limits.MaxPixels)
}

// result encodes b as a tool result. An output path without an extension
// gets the configured default format.
func (s *Server) result(b pixbuf.Buffer, out outputArgs) (*imaging.ImageResult, error) {
	path := out.OutputPath
	if path != "" && filepath.Ext(path) == "" {
		path += "." + s.cfg.Output.DefaultFormat
	}
	return imaging.NewResult(b, path, s.cfg.Output.Quality)
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return imaging.LoadInfo(s.cache, a.Path)
}

type imageSampleColorArgs struct {
	Path   string `json:"path"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label,omitempty"`
	} `json:"points,omitempty"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}

	if len(a.Points) == 0 {
		return imaging.SampleColor(img, a.X, a.Y)
	}
	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Label: p.Label}
	}
	return imaging.SampleColorsMulti(img, points)
}

type imageCompareArgs struct {
	Path      string `json:"path"`
	OtherPath string `json:"other_path"`
}

func (s *Server) handleImageCompare(args json.RawMessage) (interface{}, error) {
	var a imageCompareArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img1, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	img2, err := s.load(a.OtherPath)
	if err != nil {
		return nil, err
	}
	return imaging.Compare(img1, img2), nil
}

// === Size Operation Handlers ===

type imageSizeArgs struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	outputArgs
}

func (s *Server) handleImageResample(args json.RawMessage) (interface{}, error) {
	var a imageSizeArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Width < 0 || a.Height < 0 {
		return nil, fmt.Errorf("target dimensions cannot be negative: %dx%d", a.Width, a.Height)
	}
	if err := s.checkPixels(a.Width, a.Height); err != nil {
		return nil, err
	}
	img, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}

	s.logDebug("resample %s %dx%d -> %dx%d", a.Path, img.Width, img.Height, a.Width, a.Height)
	return s.result(resample.Resample(img, a.Width, a.Height), a.outputArgs)
}

func (s *Server) handleImageSeamCarve(args json.RawMessage) (interface{}, error) {
	var a imageSizeArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Width < 0 || a.Height < 0 {
		return nil, fmt.Errorf("target dimensions cannot be negative: %dx%d", a.Width, a.Height)
	}
	img, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}

	seams := max(img.Width-a.Width, 0) + max(img.Height-a.Height, 0)
	if limit := s.cfg.Limits.MaxSeams; limit > 0 && seams > limit {
		return nil, fmt.Errorf("carving %dx%d to %dx%d removes %d seams, more than the limit of %d",
			img.Width, img.Height, a.Width, a.Height, seams, limit)
	}

	s.logDebug("seam carve %s %dx%d -> %dx%d (%d seams)", a.Path, img.Width, img.Height, a.Width, a.Height, seams)
	return s.result(s.carver.Carve(img, a.Width, a.Height), a.outputArgs)
}

type imageResizeArgs struct {
	imageSizeArgs
	Filter string `json:"filter"`
}

func (s *Server) handleImageResize(args json.RawMessage) (interface{}, error) {
	var a imageResizeArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}

	// Estimate the size a zero dimension resolves to.
	w, h := a.Width, a.Height
	if w == 0 && h > 0 && img.Height > 0 {
		w = int(math.Round(float64(h) * float64(img.Width) / float64(img.Height)))
	}
	if h == 0 && w > 0 && img.Width > 0 {
		h = int(math.Round(float64(w) * float64(img.Height) / float64(img.Width)))
	}
	if err := s.checkPixels(w, h); err != nil {
		return nil, err
	}

	out, err := imaging.Resize(img, a.Width, a.Height, a.Filter)
	if err != nil {
		return nil, err
	}
	return s.result(out, a.outputArgs)
}

// === Geometry Handlers ===

type imageRotateArgs struct {
	Path       string  `json:"path"`
	Angle      float64 `json:"angle"`
	Background string  `json:"background"`
	outputArgs
}

func (s *Server) handleImageRotate(args json.RawMessage) (interface{}, error) {
	var a imageRotateArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Background == "" {
		a.Background = "#00000000"
	}
	bg, err := imaging.ParseHexColor(a.Background)
	if err != nil {
		return nil, fmt.Errorf("invalid background: %w", err)
	}
	img, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}

	// Angles are clockwise. Quarter turns are exact pixel permutations.
	angle := math.Mod(a.Angle, 360)
	if angle < 0 {
		angle += 360
	}
	if err := s.checkPixels(geometry.RotatedSize(img.Width, img.Height, angle)); err != nil {
		return nil, err
	}
	var out pixbuf.Buffer
	switch angle {
	case 0:
		out = img
	case 90:
		out = geometry.Rotate90(img)
	case 180:
		out = geometry.Rotate180(img)
	case 270:
		out = geometry.Rotate270(img)
	default:
		out = geometry.Rotate(img, -angle, bg)
	}
	return s.result(out, a.outputArgs)
}

type imageFlipArgs struct {
	Path      string `json:"path"`
	Direction string `json:"direction"`
	outputArgs
}

func (s *Server) handleImageFlip(args json.RawMessage) (interface{}, error) {
	var a imageFlipArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Direction == "" {
		a.Direction = "horizontal"
	}
	img, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}

	var out pixbuf.Buffer
	switch strings.ToLower(a.Direction) {
	case "horizontal":
		out = geometry.FlipH(img)
	case "vertical":
		out = geometry.FlipV(img)
	case "transpose":
		out = geometry.Transpose(img)
	default:
		return nil, fmt.Errorf("invalid direction %q (valid: horizontal, vertical, transpose)", a.Direction)
	}
	return s.result(out, a.outputArgs)
}

type imageShearArgs struct {
	Path      string  `json:"path"`
	Direction string  `json:"direction"`
	Angle     float64 `json:"angle"`
	outputArgs
}

func (s *Server) handleImageShear(args json.RawMessage) (interface{}, error) {
	var a imageShearArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Direction == "" {
		a.Direction = "horizontal"
	}
	if a.Angle <= -90 || a.Angle >= 90 {
		return nil, fmt.Errorf("shear angle must be between -90 and 90 degrees, got %g", a.Angle)
	}
	img, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}

	var out pixbuf.Buffer
	switch strings.ToLower(a.Direction) {
	case "horizontal":
		if err := s.checkPixels(geometry.ShearSize(img.Width, img.Height, a.Angle)); err != nil {
			return nil, err
		}
		out = geometry.ShearH(img, a.Angle)
	case "vertical":
		h, w := geometry.ShearSize(img.Height, img.Width, a.Angle)
		if err := s.checkPixels(w, h); err != nil {
			return nil, err
		}
		out = geometry.ShearV(img, a.Angle)
	default:
		return nil, fmt.Errorf("invalid direction %q (valid: horizontal, vertical)", a.Direction)
	}
	return s.result(out, a.outputArgs)
}

type imageCropArgs struct {
	Path  string  `json:"path"`
	X1    int     `json:"x1"`
	Y1    int     `json:"y1"`
	X2    int     `json:"x2"`
	Y2    int     `json:"y2"`
	Scale float64 `json:"scale"`
	outputArgs
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := geometry.Crop(img, a.X1, a.Y1, a.X2, a.Y2)
	if err != nil {
		return nil, err
	}
	return s.scaled(out, a.Scale, a.outputArgs)
}

type imageCropQuadrantArgs struct {
	Path   string  `json:"path"`
	Region string  `json:"region"`
	Scale  float64 `json:"scale"`
	outputArgs
}

func (s *Server) handleImageCropQuadrant(args json.RawMessage) (interface{}, error) {
	var a imageCropQuadrantArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.load(a.Path)
	if err != nil {
		return nil, err
	}
	out, err := geometry.CropRegion(img, a.Region)
	if err != nil {
		return nil, err
	}
	return s.scaled(out, a.Scale, a.outputArgs)
}

// scaled zooms a crop by scale with pixel-replicating resampling, so
// enlarged crops keep hard pixel edges.
func (s *Server) scaled(b pixbuf.Buffer, scale float64, out outputArgs) (*imaging.ImageResult, error) {
	if scale == 0 {
		scale = 1.0
	}
	if scale < 0 {
		return nil, fmt.Errorf("scale must be positive, got %g", scale)
	}
	if scale != 1.0 {
		w := max(1, int(math.Round(float64(b.Width)*scale)))
		h := max(1, int(math.Round(float64(b.Height)*scale)))
		if err := s.checkPixels(w, h); err != nil {
			return nil, err
		}
		b = resample.Resample(b, w, h)
	}
	return s.result(b, out)
}

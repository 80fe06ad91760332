package server

import (
	"strings"

	"github.com/ironsheep/pixel-tools-mcp/internal/geometry"
	"github.com/ironsheep/pixel-tools-mcp/internal/imaging"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// prop builds a JSON schema property.
func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

// propDefault builds a JSON schema property with a default value.
func propDefault(typ, description string, def interface{}) map[string]interface{} {
	p := prop(typ, description)
	p["default"] = def
	return p
}

// propEnum builds a string property restricted to values.
func propEnum(description string, values []string, def string) map[string]interface{} {
	p := prop("string", description+" ("+strings.Join(values, ", ")+")")
	p["enum"] = values
	if def != "" {
		p["default"] = def
	}
	return p
}

// objectSchema builds an input schema. Every tool takes the image path, and
// tools that produce an image also accept output_path.
func objectSchema(produces bool, props map[string]interface{}, required ...string) map[string]interface{} {
	props["path"] = prop("string", "Absolute path to the image file")
	if produces {
		props["output_path"] = prop("string",
			"Optional file to write the result to. The extension selects the format; without one the configured default format is used. When omitted the result is returned inline as base64 PNG")
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   append([]string{"path"}, required...),
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, alpha usage, file size and content digest.",
			InputSchema: objectSchema(false, map[string]interface{}{}),
		},
		{
			Name:        "image_sample_color",
			Description: "Get the color at a pixel, or at several labeled points, in RGB, hex and HSL.",
			InputSchema: objectSchema(false, map[string]interface{}{
				"x": prop("integer", "X coordinate (0-based)"),
				"y": prop("integer", "Y coordinate (0-based)"),
				"points": map[string]interface{}{
					"type":        "array",
					"description": "Optional list of points to sample instead of x/y",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x":     prop("integer", "X coordinate"),
							"y":     prop("integer", "Y coordinate"),
							"label": prop("string", "Optional label for this point"),
						},
						"required": []string{"x", "y"},
					},
				},
			}),
		},
		{
			Name:        "image_compare",
			Description: "Compare two images pixel by pixel over their overlapping area and report similarity.",
			InputSchema: objectSchema(false, map[string]interface{}{
				"other_path": prop("string", "Absolute path to the image to compare against"),
			}, "other_path"),
		},

		// Size Operations
		{
			Name:        "image_resample",
			Description: "Resize to an exact size by rational pixel replication and decimation. Integer ratios reproduce pixels exactly with no blending; a zero dimension yields an empty image.",
			InputSchema: objectSchema(true, map[string]interface{}{
				"width":  prop("integer", "Target width in pixels"),
				"height": prop("integer", "Target height in pixels"),
			}, "width", "height"),
		},
		{
			Name:        "image_seam_carve",
			Description: "Shrink to a smaller size by removing the lowest-energy seams, preserving salient content. Targets larger than the source leave that dimension unchanged.",
			InputSchema: objectSchema(true, map[string]interface{}{
				"width":  prop("integer", "Target width in pixels"),
				"height": prop("integer", "Target height in pixels"),
			}, "width", "height"),
		},
		{
			Name:        "image_resize",
			Description: "Resize with an interpolating filter. A zero width or height keeps the aspect ratio.",
			InputSchema: objectSchema(true, map[string]interface{}{
				"width":  prop("integer", "Target width in pixels, or 0 to derive it from height"),
				"height": prop("integer", "Target height in pixels, or 0 to derive it from width"),
				"filter": propEnum("Resampling filter", imaging.ResizeFilters(), "lanczos"),
			}),
		},

		// Geometry
		{
			Name:        "image_rotate",
			Description: "Rotate clockwise by angle degrees. Multiples of 90 are exact; other angles enlarge the canvas and fill corners with the background color.",
			InputSchema: objectSchema(true, map[string]interface{}{
				"angle":      prop("number", "Clockwise rotation in degrees"),
				"background": propDefault("string", "Fill color for uncovered corners as hex", "#00000000"),
			}, "angle"),
		},
		{
			Name:        "image_flip",
			Description: "Mirror the image horizontally or vertically, or transpose it across its main diagonal.",
			InputSchema: objectSchema(true, map[string]interface{}{
				"direction": propEnum("Flip direction", []string{"horizontal", "vertical", "transpose"}, "horizontal"),
			}),
		},
		{
			Name:        "image_shear",
			Description: "Shear the image by angle degrees, enlarging the canvas with transparent pixels.",
			InputSchema: objectSchema(true, map[string]interface{}{
				"direction": propEnum("Shear direction", []string{"horizontal", "vertical"}, "horizontal"),
				"angle":     prop("number", "Shear angle in degrees, strictly between -90 and 90"),
			}, "angle"),
		},
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region. Use scale to zoom into areas that need detailed examination; zooming replicates pixels.",
			InputSchema: objectSchema(true, map[string]interface{}{
				"x1":    prop("integer", "Left edge X coordinate (0-based)"),
				"y1":    prop("integer", "Top edge Y coordinate (0-based)"),
				"x2":    prop("integer", "Right edge X coordinate (exclusive)"),
				"y2":    prop("integer", "Bottom edge Y coordinate (exclusive)"),
				"scale": propDefault("number", "Optional scale factor (e.g., 2.0 to double size)", 1.0),
			}, "x1", "y1", "x2", "y2"),
		},
		{
			Name:        "image_crop_quadrant",
			Description: "Crop a named region of the image such as a half or a quadrant.",
			InputSchema: objectSchema(true, map[string]interface{}{
				"region": propEnum("Named region", geometry.Regions, ""),
				"scale":  propDefault("number", "Optional scale factor", 1.0),
			}, "region"),
		},

		// Color
		{
			Name:        "image_channels",
			Description: "Reorder color channels (e.g., \"bgra\") and/or shift one channel by a signed delta.",
			InputSchema: objectSchema(true, map[string]interface{}{
				"order":   prop("string", "Four letters over r, g, b, a giving the source of each output channel"),
				"channel": propEnum("Channel to adjust", []string{"r", "g", "b", "a"}, ""),
				"delta":   prop("integer", "Signed amount added to the channel, saturating at 0 and 255"),
			}),
		},
		{
			Name:        "image_color_filter",
			Description: "Apply a color filter. brightness, contrast and saturation take amount in [-1, 1]; gamma takes a positive amount; hue takes degrees.",
			InputSchema: objectSchema(true, map[string]interface{}{
				"filter": propEnum("Filter name",
					append(imaging.ColorFilterNames(), "brightness", "contrast", "gamma", "hue", "saturation"), ""),
				"amount": prop("number", "Filter strength, where applicable"),
			}, "filter"),
		},
		{
			Name:        "image_tint",
			Description: "Mix every pixel toward a color, interpolating in CIE L*a*b*.",
			InputSchema: objectSchema(true, map[string]interface{}{
				"color":  prop("string", "Tint color as hex (e.g., \"#FF8800\")"),
				"amount": propDefault("number", "Mix amount from 0 to 1", 0.5),
			}, "color"),
		},
		{
			Name:        "image_duotone",
			Description: "Map brightness onto a two-color gradient from shadow to highlight.",
			InputSchema: objectSchema(true, map[string]interface{}{
				"shadow":    prop("string", "Color for black as hex"),
				"highlight": prop("string", "Color for white as hex"),
			}, "shadow", "highlight"),
		},

		// Filters and Compositing
		{
			Name:        "image_convolve",
			Description: "Run a named neighbourhood filter or a custom square convolution kernel.",
			InputSchema: objectSchema(true, map[string]interface{}{
				"kernel": propEnum("Named filter", imaging.Kernels, ""),
				"matrix": map[string]interface{}{
					"type":        "array",
					"description": "Custom kernel weights, row-major, with an odd side length",
					"items":       map[string]interface{}{"type": "number"},
				},
				"radius":    propDefault("number", "Radius for blur, median, edge and unsharp filters", 1.0),
				"normalize": propDefault("boolean", "Scale custom kernel weights to sum to one", false),
				"bias":      propDefault("number", "Value added to every output sample", 0.0),
			}),
		},
		{
			Name:        "image_pad",
			Description: "Add borders of a solid color around the image.",
			InputSchema: objectSchema(true, map[string]interface{}{
				"top":    prop("integer", "Rows added above"),
				"right":  prop("integer", "Columns added to the right"),
				"bottom": prop("integer", "Rows added below"),
				"left":   prop("integer", "Columns added to the left"),
				"color":  propDefault("string", "Border color as hex", "#00000000"),
			}),
		},
		{
			Name:        "image_watermark",
			Description: "Draw another image over this one at a position with the given opacity.",
			InputSchema: objectSchema(true, map[string]interface{}{
				"mark_path": prop("string", "Absolute path to the watermark image"),
				"x":         prop("integer", "Left edge of the watermark"),
				"y":         prop("integer", "Top edge of the watermark"),
				"opacity":   propDefault("number", "Opacity from 0 to 1", 0.5),
			}, "mark_path"),
		},
		{
			Name:        "image_blend",
			Description: "Blend another image over this one with a blend mode. The top layer is resampled to fit.",
			InputSchema: objectSchema(true, map[string]interface{}{
				"top_path": prop("string", "Absolute path to the top layer image"),
				"mode":     propEnum("Blend mode", imaging.BlendModes(), "normal"),
			}, "top_path"),
		},
		{
			Name:        "image_text",
			Description: "Draw a line of text in a fixed 7x13 bitmap font. (x, y) is the top-left of the text.",
			InputSchema: objectSchema(true, map[string]interface{}{
				"text":  prop("string", "Text to draw"),
				"x":     prop("integer", "Left edge of the text"),
				"y":     prop("integer", "Top edge of the text"),
				"color": propDefault("string", "Text color as hex", "#000000"),
			}, "text"),
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}

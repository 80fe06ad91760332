// Package server implements the MCP (Model Context Protocol) server for pixel tools.
//
// This package provides a JSON-RPC 2.0 server that exposes exact resampling,
// seam carving and supporting image operations through the MCP protocol.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Information:
//   - image_load: Load image and get metadata
//   - image_sample_color: Get color at one or more pixels
//   - image_compare: Pixel difference between two images
//
// Size Operations:
//   - image_resample: Exact rational resampling
//   - image_seam_carve: Content-aware shrinking
//   - image_resize: Interpolating resize
//
// Geometry:
//   - image_rotate, image_flip, image_shear
//   - image_crop, image_crop_quadrant
//
// Color:
//   - image_channels: Swap or shift channels
//   - image_color_filter: Grayscale, sepia, invert and adjustments
//   - image_tint, image_duotone
//
// Filters and Compositing:
//   - image_convolve: Named or custom kernels
//   - image_pad, image_watermark, image_blend, image_text
//
// Tools that produce an image return it inline as base64 PNG, or write it to
// output_path when one is given.
//
// # Image Caching
//
// Decoded images are cached by path and reused across tool calls. The cache
// persists for the lifetime of the server process.
//
// # Limits
//
// limits.max_pixels bounds both decoded inputs and requested outputs.
// limits.max_seams bounds the number of seams one image_seam_carve call may
// remove.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// A panic inside a tool is recovered and reported the same way.
//
// # Usage
//
//	srv := server.New(cfg)
//	if err := srv.Serve(os.Stdin, os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
package server

// Package imaging connects pixbuf buffers to the outside world and provides
// the colour, convolution and compositing filters offered next to resampling
// and seam carving.
//
// All operations work on pixbuf.Buffer values and use a coordinate system
// where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward. Filters never modify their input.
//
// # Codecs
//
// Decode and Encode cover PNG, JPEG, GIF, BMP and TIFF through
// disintegration/imaging, WebP through chai2010/webp and AVIF through
// gen2brain/avif. Decoding checks the declared dimensions against a pixel
// limit before any pixel data is decoded.
//
// # Thread Safety
//
// The BufferCache type is safe for concurrent use. Every other function is
// stateless and can be called concurrently.
//
// # Color Representation
//
// Colors are returned in multiple formats for flexibility:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - RGBA: 8-bit components with alpha (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Straight Alpha
//
// Buffers hold non-premultiplied samples. The bild filters used here process
// each channel independently, so buffers are handed to them as-is and their
// output is read back without any alpha conversion.
package imaging

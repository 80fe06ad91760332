package imaging

import (
	"fmt"
	"os"
	"sync"

	"github.com/ironsheep/pixel-tools-mcp/internal/pixbuf"
)

// BufferCache provides thread-safe caching of decoded images to avoid
// redundant disk reads.
//
// The cache stores decoded buffers keyed by their file path. Once an image is
// loaded, subsequent Load() calls for the same path return a copy of the
// cached buffer without disk I/O.
//
// # Memory Management
//
// Cached buffers remain in memory until explicitly removed via Evict() or
// Clear(). A positive pixel limit rejects oversized files before they are
// decoded.
type BufferCache struct {
	mu        sync.RWMutex
	entries   map[string]cacheEntry
	maxPixels int
}

type cacheEntry struct {
	buf    pixbuf.Buffer
	format Format
}

// NewBufferCache creates an empty cache. maxPixels bounds width*height of
// loaded images; zero disables the check.
func NewBufferCache(maxPixels int) *BufferCache {
	return &BufferCache{
		entries:   make(map[string]cacheEntry),
		maxPixels: maxPixels,
	}
}

// Load retrieves an image from the cache or decodes it from disk if not
// cached. The returned buffer is owned by the caller.
//
// The image is cached using the exact path string provided. Different paths
// to the same file (e.g., relative vs absolute) result in separate cache
// entries.
func (c *BufferCache) Load(path string) (pixbuf.Buffer, error) {
	entry, err := c.load(path)
	if err != nil {
		return pixbuf.Buffer{}, err
	}
	return entry.buf.Clone(), nil
}

func (c *BufferCache) load(path string) (cacheEntry, error) {
	c.mu.RLock()
	if entry, ok := c.entries[path]; ok {
		c.mu.RUnlock()
		return entry, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return cacheEntry{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	buf, format, err := Decode(f, c.maxPixels)
	if err != nil {
		return cacheEntry{}, err
	}

	entry := cacheEntry{buf: buf, format: format}
	c.mu.Lock()
	c.entries[path] = entry
	c.mu.Unlock()

	return entry, nil
}

// Clear removes all images from the cache.
func (c *BufferCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path. If the path is
// not in the cache, this method does nothing.
func (c *BufferCache) Evict(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *BufferCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the format detected from the file contents.
	Format Format `json:"format"`

	// HasAlpha reports whether any pixel is not fully opaque.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// Digest fingerprints the decoded pixels (see pixbuf.Buffer.Digest).
	Digest string `json:"digest"`
}

// LoadInfo loads an image into the cache (if not already cached) and
// returns its metadata.
func LoadInfo(cache *BufferCache, path string) (*ImageInfo, error) {
	entry, err := cache.load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	buf := entry.buf
	return &ImageInfo{
		Width:         buf.Width,
		Height:        buf.Height,
		Format:        entry.format,
		HasAlpha:      !buf.NRGBA().Opaque(),
		FileSizeBytes: stat.Size(),
		Digest:        buf.Digest(),
	}, nil
}

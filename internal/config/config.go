package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment variables consulted by FromEnv.
const (
	EnvConfigPath = "PIXEL_MCP_CONFIG"
	EnvLogLevel   = "PIXEL_MCP_LOG_LEVEL"
)

// Config holds the application configuration
type Config struct {
	Server ServerConfig `json:"server"`
	Limits LimitsConfig `json:"limits"`
	Carve  CarveConfig  `json:"carve"`
	Output OutputConfig `json:"output"`
}

// ServerConfig holds configuration for the MCP server
type ServerConfig struct {
	// LogLevel is "info" or "debug".
	LogLevel string `json:"log_level"`
	// MaxRequestBytes bounds a single JSON-RPC line on stdin.
	MaxRequestBytes int `json:"max_request_bytes"`
}

// LimitsConfig bounds the work a single request may ask for
type LimitsConfig struct {
	// MaxPixels caps width*height of any loaded or produced buffer. Zero disables the check.
	MaxPixels int `json:"max_pixels"`
	// MaxSeams caps the seams one carve request may remove. Zero disables the check.
	MaxSeams int `json:"max_seams"`
}

// CarveConfig tunes seam carving
type CarveConfig struct {
	Workers           int `json:"workers"`
	ParallelThreshold int `json:"parallel_threshold"`
}

// OutputConfig holds configuration for encoded results
type OutputConfig struct {
	DefaultFormat string `json:"default_format"`
	Quality       int    `json:"quality"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			LogLevel:        "info",
			MaxRequestBytes: 16 * 1024 * 1024,
		},
		Limits: LimitsConfig{
			MaxPixels: 64 * 1024 * 1024,
			MaxSeams:  2048,
		},
		Carve: CarveConfig{
			Workers:           0,
			ParallelThreshold: 256 * 256,
		},
		Output: OutputConfig{
			DefaultFormat: "png",
			Quality:       90,
		},
	}
}

// LoadFromFile loads configuration from a JSON file. Fields missing from the
// file keep their default values.
func LoadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a JSON file
func (c *Config) SaveToFile(filename string) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// FromEnv loads the file named by PIXEL_MCP_CONFIG (or path, when non-empty)
// and applies PIXEL_MCP_LOG_LEVEL on top. Without a file the defaults are
// used.
func FromEnv(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	config := Default()
	if path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		config.Server.LogLevel = strings.ToLower(level)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Server.LogLevel {
	case "info", "debug":
	default:
		return fmt.Errorf("server.log_level must be info or debug, got %q", c.Server.LogLevel)
	}

	if c.Server.MaxRequestBytes < 64*1024 {
		return fmt.Errorf("server.max_request_bytes must be at least 65536")
	}

	if c.Limits.MaxPixels < 0 {
		return fmt.Errorf("limits.max_pixels cannot be negative")
	}

	if c.Limits.MaxSeams < 0 {
		return fmt.Errorf("limits.max_seams cannot be negative")
	}

	if c.Carve.Workers < 0 {
		return fmt.Errorf("carve.workers cannot be negative")
	}

	if c.Carve.ParallelThreshold < 0 {
		return fmt.Errorf("carve.parallel_threshold cannot be negative")
	}

	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		return fmt.Errorf("output.quality must be between 1 and 100")
	}

	switch c.Output.DefaultFormat {
	case "png", "jpeg", "gif", "bmp", "tiff", "webp", "avif":
	default:
		return fmt.Errorf("output.default_format %q is not supported", c.Output.DefaultFormat)
	}

	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.Server.LogLevel == "debug"
}

// DefaultPath returns the default configuration file path
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}
	return filepath.Join(home, ".config", "pixel-tools-mcp", "config.json")
}

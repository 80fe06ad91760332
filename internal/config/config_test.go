package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"bad log level", func(c *Config) { c.Server.LogLevel = "trace" }},
		{"tiny request limit", func(c *Config) { c.Server.MaxRequestBytes = 10 }},
		{"negative max pixels", func(c *Config) { c.Limits.MaxPixels = -1 }},
		{"negative max seams", func(c *Config) { c.Limits.MaxSeams = -5 }},
		{"negative workers", func(c *Config) { c.Carve.Workers = -2 }},
		{"negative threshold", func(c *Config) { c.Carve.ParallelThreshold = -1 }},
		{"quality zero", func(c *Config) { c.Output.Quality = 0 }},
		{"quality too high", func(c *Config) { c.Output.Quality = 101 }},
		{"unknown format", func(c *Config) { c.Output.DefaultFormat = "xcf" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	c := Default()
	c.Limits.MaxSeams = 10
	c.Output.DefaultFormat = "webp"
	if err := c.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if loaded.Limits.MaxSeams != 10 || loaded.Output.DefaultFormat != "webp" {
		t.Errorf("loaded config mismatch: %+v", loaded)
	}
}

func TestLoadFromFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"limits":{"max_seams":7}}`), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if c.Limits.MaxSeams != 7 {
		t.Errorf("MaxSeams: got %d, want 7", c.Limits.MaxSeams)
	}
	if c.Output.Quality != Default().Output.Quality {
		t.Errorf("Quality should keep its default, got %d", c.Output.Quality)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"carve":{"workers":3}}`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)
	t.Setenv(EnvLogLevel, "DEBUG")

	c, err := FromEnv("")
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if c.Carve.Workers != 3 {
		t.Errorf("Workers: got %d, want 3", c.Carve.Workers)
	}
	if !c.Debug() {
		t.Error("log level from the environment should enable debug")
	}
}

func TestFromEnv_NoFile(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvLogLevel, "")

	c, err := FromEnv("")
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if c.Debug() {
		t.Error("debug should be off by default")
	}
}

func TestFromEnv_InvalidLevel(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvLogLevel, "verbose")

	if _, err := FromEnv(""); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestDefaultPath(t *testing.T) {
	if filepath.Base(DefaultPath()) != "config.json" {
		t.Errorf("unexpected default path %s", DefaultPath())
	}
}

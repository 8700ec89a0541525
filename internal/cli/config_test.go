package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/treescope/treescope/pkg/pipeline"
)

func TestLoadConfigFileMissing(t *testing.T) {
	cfg, err := loadConfigFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("loadConfigFile() on missing file error: %v", err)
	}
	if cfg != (Config{}) {
		t.Errorf("loadConfigFile() on missing file = %+v, want zero Config", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
y_scale = 2.0
padding = 15.0
labels = true
format = "svg,png"
redis_addr = "localhost:6379"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfigFile(path)
	if err != nil {
		t.Fatalf("loadConfigFile() error: %v", err)
	}

	if cfg.YScale != 2.0 {
		t.Errorf("YScale = %v, want 2.0", cfg.YScale)
	}
	if cfg.Padding != 15.0 {
		t.Errorf("Padding = %v, want 15.0", cfg.Padding)
	}
	if !cfg.Labels {
		t.Error("Labels should be true")
	}
	if cfg.Format != "svg,png" {
		t.Errorf("Format = %q, want %q", cfg.Format, "svg,png")
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q, want %q", cfg.RedisAddr, "localhost:6379")
	}
}

func TestLoadConfigFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("y_scale = [not toml"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := loadConfigFile(path); err == nil {
		t.Error("loadConfigFile() should fail on malformed TOML")
	}
}

func TestConfigApplyTo(t *testing.T) {
	opts := pipeline.Options{}
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()

	cfg := Config{
		YScale: 3.0,
		Labels: true,
		Format: "png,dot",
	}
	cfg.applyTo(&opts)

	if opts.YScale != 3.0 {
		t.Errorf("YScale = %v, want 3.0", opts.YScale)
	}
	if !opts.Labels {
		t.Error("Labels should be true")
	}
	if len(opts.Formats) != 2 || opts.Formats[0] != "png" || opts.Formats[1] != "dot" {
		t.Errorf("Formats = %v, want [png dot]", opts.Formats)
	}

	// Unset fields leave defaults in place
	if opts.ViewportHeight != pipeline.DefaultViewportHeight {
		t.Errorf("ViewportHeight = %v, want default %v", opts.ViewportHeight, pipeline.DefaultViewportHeight)
	}
	if opts.Padding != pipeline.DefaultPadding {
		t.Errorf("Padding = %v, want default %v", opts.Padding, pipeline.DefaultPadding)
	}
}

func TestConfigApplyToZeroConfig(t *testing.T) {
	opts := pipeline.Options{}
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
	before := opts

	Config{}.applyTo(&opts)

	if opts.YScale != before.YScale || opts.ViewportHeight != before.ViewportHeight ||
		opts.Padding != before.Padding || opts.TextSize != before.TextSize {
		t.Errorf("zero Config changed options: %+v != %+v", opts, before)
	}
	if opts.Labels != before.Labels {
		t.Error("zero Config should not change Labels")
	}
}

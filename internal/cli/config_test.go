package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GalacticGlum/FreeCell/pkg/errors"
	"github.com/GalacticGlum/FreeCell/pkg/pipeline"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "layout.toml"))
	if err != nil {
		t.Fatalf("loadConfig() on missing file: %v", err)
	}
	if cfg != (Config{}) {
		t.Error("missing file should yield a zero config")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.toml")
	content := `
[viewport]
height = 900
card_height = 180

[visibility]
default = 90
max_cards = 12
compressed_group_size = 3
compression_factor = 2.5

[cache]
redis_addr = "localhost:6379"
redis_db = 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}

	if cfg.Viewport.Height != 900 || cfg.Viewport.CardHeight != 180 {
		t.Errorf("viewport = %+v", cfg.Viewport)
	}
	if cfg.Visibility.Default != 90 || cfg.Visibility.MaxCards != 12 {
		t.Errorf("visibility = %+v", cfg.Visibility)
	}
	if cfg.Visibility.CompressedGroupSize != 3 || cfg.Visibility.CompressionFactor != 2.5 {
		t.Errorf("visibility = %+v", cfg.Visibility)
	}
	if cfg.Cache.RedisAddr != "localhost:6379" || cfg.Cache.RedisDB != 2 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.toml")
	if err := os.WriteFile(path, []byte("[viewport\nheight = nope"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := loadConfig(path)
	if err == nil {
		t.Fatal("expected error for malformed TOML")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("code = %v, want INVALID_CONFIGURATION", errors.GetCode(err))
	}
}

func TestConfigApplyTo(t *testing.T) {
	var cfg Config
	cfg.Viewport.Height = 900
	cfg.Visibility.MaxCards = 12

	// Flag-set fields win over the config file.
	opts := pipeline.Options{CardCount: 8, ViewportHeight: 1000}
	cfg.applyTo(&opts)

	if opts.ViewportHeight != 1000 {
		t.Errorf("ViewportHeight = %v, flag value should win", opts.ViewportHeight)
	}
	if opts.MaxCards != 12 {
		t.Errorf("MaxCards = %v, want config value 12", opts.MaxCards)
	}
	if opts.CardHeight != 0 {
		t.Errorf("CardHeight = %v, unset fields should stay zero", opts.CardHeight)
	}
}

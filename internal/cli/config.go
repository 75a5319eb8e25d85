package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/GalacticGlum/FreeCell/pkg/errors"
	"github.com/GalacticGlum/FreeCell/pkg/pipeline"
)

// Config is the on-disk CLI configuration (layout.toml). All fields are
// optional; zero values defer to the built-in defaults. Flags override
// configuration values.
//
// Example:
//
//	[viewport]
//	height = 800
//	card_height = 200
//
//	[visibility]
//	default = 100
//	max_cards = 10
//	compressed_group_size = 4
//
//	[cache]
//	redis_addr = "localhost:6379"
type Config struct {
	Viewport struct {
		Height     float64 `toml:"height"`
		CardHeight float64 `toml:"card_height"`
	} `toml:"viewport"`

	Visibility struct {
		Default             float64 `toml:"default"`
		MaxCards            int     `toml:"max_cards"`
		CompressedGroupSize int     `toml:"compressed_group_size"`
		CompressionFactor   float64 `toml:"compression_factor"`
	} `toml:"visibility"`

	Cache struct {
		RedisAddr     string `toml:"redis_addr"`
		RedisPassword string `toml:"redis_password"`
		RedisDB       int    `toml:"redis_db"`
	} `toml:"cache"`
}

// loadConfig reads the configuration file at path. A missing file is not an
// error: it returns a zero Config so the built-in defaults apply.
func loadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return cfg, nil
}

// loadDefaultConfig loads the configuration from the XDG config path.
// Path resolution failures degrade to a zero Config.
func loadDefaultConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Config{}, nil
	}
	return loadConfig(path)
}

// applyTo fills zero-valued pipeline options from the configuration.
// Options already set (by flags) win over the file.
func (cfg Config) applyTo(opts *pipeline.Options) {
	if opts.ViewportHeight == 0 {
		opts.ViewportHeight = cfg.Viewport.Height
	}
	if opts.CardHeight == 0 {
		opts.CardHeight = cfg.Viewport.CardHeight
	}
	if opts.DefaultVisibility == 0 {
		opts.DefaultVisibility = cfg.Visibility.Default
	}
	if opts.MaxCards == 0 {
		opts.MaxCards = cfg.Visibility.MaxCards
	}
	if opts.CompressedGroupSize == 0 {
		opts.CompressedGroupSize = cfg.Visibility.CompressedGroupSize
	}
	if opts.CompressionFactor == 0 {
		opts.CompressionFactor = cfg.Visibility.CompressionFactor
	}
}

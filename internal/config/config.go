package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	"nightdrive/internal/game"
)

type Config struct {
	Window  WindowConfig  `toml:"window"`
	Audio   AudioConfig   `toml:"audio"`
	Logging LoggingConfig `toml:"logging"`
	Game    GameConfig    `toml:"game"`
	World   game.Tuning   `toml:"world"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
}

type AudioConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"` // 0.0-1.0
}

type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console or json
}

type GameConfig struct {
	Map         string `toml:"map"`  // map selector, resolved loosely
	Seed        uint64 `toml:"seed"` // 0 = from the clock
	ModelDir    string `toml:"model_dir"`
	PlayerModel string `toml:"player_model"`
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse overlays TOML data onto cfg and repairs unusable values.
func Parse(data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return err
	}
	cfg.World.Sanitize()
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		d := defaults()
		cfg.Window.Width, cfg.Window.Height = d.Window.Width, d.Window.Height
	}
	if cfg.Audio.Volume < 0 {
		cfg.Audio.Volume = 0
	}
	if cfg.Audio.Volume > 1 {
		cfg.Audio.Volume = 1
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "Night Drive",
			VSync:  true,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  0.6,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Game: GameConfig{
			Map:         "city",
			ModelDir:    "assets/cars",
			PlayerModel: "coupe",
		},
		World: game.DefaultTuning(),
	}
}

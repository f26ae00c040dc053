// Package config provides YAML-based configuration loading for tui-2048.
package config

import (
	"fmt"
	"time"
)

// Config is the full application configuration.
type Config struct {
	Game    GameConfig    `yaml:"game"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// GameConfig controls board size and tile spawning.
type GameConfig struct {
	Size       int     `yaml:"size"`        // Cells per side
	StartTiles int     `yaml:"start_tiles"` // Tiles placed on a fresh board
	Spawn4     float64 `yaml:"spawn4"`      // Probability of spawning 4 instead of 2 (0.0-1.0)
}

// StorageConfig locates persisted data.
type StorageConfig struct {
	DBPath    string `yaml:"db_path"`
	RecordDir string `yaml:"record_dir"`
}

// ServerConfig configures `serve` and the spectator feed.
type ServerConfig struct {
	SSHAddr     string        `yaml:"ssh_addr"`
	HostKeyPath string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	WatchAddr   string        `yaml:"watch_addr"` // Empty disables the spectator feed
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Validate checks the semantic constraints the schema cannot express.
func (c Config) Validate() error {
	g := c.Game
	if g.Size < 2 {
		return fmt.Errorf("config: game.size must be at least 2, got %d", g.Size)
	}
	if g.Spawn4 < 0 || g.Spawn4 > 1 {
		return fmt.Errorf("config: game.spawn4 must be within [0, 1], got %g", g.Spawn4)
	}
	if g.StartTiles < 0 || g.StartTiles > g.Size*g.Size {
		return fmt.Errorf("config: game.start_tiles must be within [0, %d], got %d", g.Size*g.Size, g.StartTiles)
	}
	if c.Server.IdleTimeout < 0 {
		return fmt.Errorf("config: server.idle_timeout must not be negative")
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ApplyPreset adjusts tile spawning for a difficulty preset.
// An empty preset leaves the config unchanged.
func ApplyPreset(cfg *GameConfig, preset DifficultyPreset) error {
	switch preset {
	case "":
	case DifficultyEasy:
		cfg.Spawn4 = 0.05
	case DifficultyNormal:
		cfg.Spawn4 = 0.10
	case DifficultyHard:
		cfg.Spawn4 = 0.25
	default:
		return fmt.Errorf("config: unknown difficulty %q", preset)
	}
	return nil
}

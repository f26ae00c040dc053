package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/tui2048.yaml
var defaultYAML []byte

//go:embed defaults/config.schema.json
var schemaJSON string

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Game: GameConfig{
			Size:       4,
			StartTiles: 2,
			Spawn4:     0.10,
		},
		Storage: StorageConfig{
			DBPath:    "~/.tui2048/scores.db",
			RecordDir: "~/.tui2048/recordings",
		},
		Server: ServerConfig{
			SSHAddr:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

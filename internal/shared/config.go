package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Downloads DownloadsConfig `toml:"downloads"`
	Defaults  DefaultsConfig  `toml:"defaults"`
	Database  DatabaseConfig  `toml:"database"`
	Fetch     FetchConfig     `toml:"fetch"`
}

// DownloadsConfig contains output directory settings.
type DownloadsConfig struct {
	Root     string `toml:"root"`
	AudioDir string `toml:"audio_dir"`
	VideoDir string `toml:"video_dir"`
}

// DefaultsConfig contains default format preferences applied when the caller
// does not specify them explicitly.
type DefaultsConfig struct {
	VideoQuality string `toml:"video_quality"`
	AudioBitrate int    `toml:"audio_bitrate"`
	AudioFormat  string `toml:"audio_format"`
}

// DatabaseConfig contains resume ledger database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// FetchConfig contains fetch coordinator settings.
type FetchConfig struct {
	Workers        int     `toml:"workers"`
	RateLimit      float64 `toml:"rate_limit"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig writes the configuration back to the specified path as TOML.
func SaveConfig(config *Config, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// Get returns the configuration value for a dotted key.
//
// Supported keys are the user-settable preference and path keys exposed by
// the config command.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "downloads.root":
		return c.Downloads.Root, nil
	case "downloads.audio_dir":
		return c.Downloads.AudioDir, nil
	case "downloads.video_dir":
		return c.Downloads.VideoDir, nil
	case "defaults.video_quality":
		return c.Defaults.VideoQuality, nil
	case "defaults.audio_bitrate":
		return strconv.Itoa(c.Defaults.AudioBitrate), nil
	case "defaults.audio_format":
		return c.Defaults.AudioFormat, nil
	case "database.path":
		return c.Database.Path, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set updates the configuration value for a dotted key.
func (c *Config) Set(key, value string) error {
	switch key {
	case "downloads.root":
		c.Downloads.Root = value
	case "downloads.audio_dir":
		c.Downloads.AudioDir = value
	case "downloads.video_dir":
		c.Downloads.VideoDir = value
	case "defaults.video_quality":
		c.Defaults.VideoQuality = value
	case "defaults.audio_bitrate":
		bitrate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: audio_bitrate must be an integer", ErrInvalidConfig)
		}
		c.Defaults.AudioBitrate = bitrate
	case "defaults.audio_format":
		c.Defaults.AudioFormat = value
	case "database.path":
		c.Database.Path = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

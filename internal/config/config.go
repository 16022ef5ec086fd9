// Package config holds advancetrack's YAML-driven configuration, laid out
// the way the teacher's internal/config package is: one Config struct with
// nested concern-specific blocks, yaml tags, and a Default constructor.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for an advancetrack run.
type Config struct {
	// ArchivePath is the compiled game archive (a .jar) to read the vanilla
	// advancement set, tags, recipes, and language file from.
	ArchivePath string `yaml:"archive_path"`

	// WorldPath is the save folder: level.dat, advancements/, stats/,
	// datapacks/, icon.png.
	WorldPath string `yaml:"world_path"`

	// CacheDir is where the profile cache and world icon copy are written.
	CacheDir string `yaml:"cache_dir"`

	// SpreadsheetPath is the optional CSV overlay (see C7).
	SpreadsheetPath string `yaml:"spreadsheet_path"`

	// HonorZippedDatapacks resolves the §9 open question: whether a
	// DataPacks.Enabled entry ending in .zip is opened as a zip archive
	// source (datapacks/{name}.zip) or left unopened. Defaults to true.
	HonorZippedDatapacks bool `yaml:"honor_zipped_datapacks"`

	Logging LoggingConfig `yaml:"logging"`
	Live    LiveConfig    `yaml:"live"`
	Profile ProfileConfig `yaml:"profile"`
}

// LoggingConfig controls the per-category debug file logs (internal/obslog).
type LoggingConfig struct {
	DebugMode bool `yaml:"debug_mode"`
}

// LiveConfig tunes C8's debounce and channel sizing.
type LiveConfig struct {
	DebounceDelayMS   int `yaml:"debounce_delay_ms"`
	EventChannelDepth int `yaml:"event_channel_depth"`
	BroadcastDepth    int `yaml:"broadcast_depth"`
}

// ProfileConfig tunes C10's outbound HTTP behavior.
type ProfileConfig struct {
	RequestTimeoutS int `yaml:"request_timeout_s"`
	ConnectTimeoutS int `yaml:"connect_timeout_s"`
}

// Default returns the out-of-the-box configuration. Unlike the original
// implementation, no field here points at a real machine path (§9).
func Default() Config {
	return Config{
		HonorZippedDatapacks: true,
		Logging:              LoggingConfig{DebugMode: false},
		Live: LiveConfig{
			DebounceDelayMS:   150,
			EventChannelDepth: 100,
			BroadcastDepth:    32,
		},
		Profile: ProfileConfig{
			RequestTimeoutS: 5,
			ConnectTimeoutS: 2,
		},
	}
}

// Load reads a YAML config file, applying Default() for any zero-valued
// field left unset by the file's absence or partial content.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

package pkg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config carries every option the ingestion pipeline recognizes. It is built
// by the CLI from an optional TOML config file overlaid with command-line
// flags.
type Config struct {
	// SourceDir is the tree that candidate files arrive in.
	SourceDir string `toml:"source"`
	// DestinationDir is the root of the organized tree.
	DestinationDir string `toml:"destination"`
	// PreferModifiedTime selects the file's modified time over its birth
	// time when the metadata chain bottoms out at the filesystem.
	PreferModifiedTime bool `toml:"use_modified"`
	// CameraGrouping adds a camera-model directory segment to destinations.
	CameraGrouping bool `toml:"camera_model"`
	// CameraPrefix places the camera segment before the date directories
	// instead of after them.
	CameraPrefix bool `toml:"camera_model_prefix"`
	// ManualCamera overrides EXIF camera extraction entirely when non-empty.
	ManualCamera string `toml:"manual_camera_model"`
	// CopyFiles copies instead of moving. Non-media files are skipped in
	// copy mode rather than routed to unknown/.
	CopyFiles bool `toml:"copy"`
	// KeepNames preserves original filenames instead of renaming to the
	// capture timestamp.
	KeepNames bool `toml:"keep_names"`
}

// DefaultConfig returns the option values used when neither the config file
// nor the flags say otherwise. Camera grouping is on by default, matching the
// CLI's inverted --no-camera-model switch.
func DefaultConfig() Config {
	return Config{CameraGrouping: true}
}

// LoadConfigFile reads a TOML config file over the defaults.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c Config) Validate() error {
	if c.SourceDir == "" {
		return fmt.Errorf("source directory is required")
	}
	if c.DestinationDir == "" {
		return fmt.Errorf("destination directory is required")
	}
	if filepath.Clean(c.SourceDir) == filepath.Clean(c.DestinationDir) {
		return fmt.Errorf("source and destination must be different directories")
	}
	return nil
}

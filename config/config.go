// Package config loads and saves assembler configuration: output defaults,
// listing layout, and overlap-handling policy. Grounded on the teacher's
// config/config.go (DefaultConfig/GetConfigPath/Load/Save pattern),
// repurposed from emulator settings to assembler settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the assembler's configuration.
type Config struct {
	// Output settings
	Output struct {
		Format       string `toml:"format"` // "h16" or "com"
		WriteListing bool   `toml:"write_listing"`
		WriteSymbols bool   `toml:"write_symbols"`
		WriteTable   bool   `toml:"write_table"`
	} `toml:"output"`

	// Listing settings
	Listing struct {
		CodeColumnWidth int  `toml:"code_column_width"`
		ShowComments    bool `toml:"show_comments"`
	} `toml:"listing"`

	// Assembly settings
	Assembly struct {
		DefaultOrigin   string `toml:"default_origin"`
		OverlapIsError  bool   `toml:"overlap_is_error"`
		IncludePaths    string `toml:"include_paths"` // os.PathListSeparator-joined
		MaxMacroParams  int    `toml:"max_macro_params"`
	} `toml:"assembly"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Output.Format = "h16"
	cfg.Output.WriteListing = false
	cfg.Output.WriteSymbols = false
	cfg.Output.WriteTable = false

	cfg.Listing.CodeColumnWidth = 12
	cfg.Listing.ShowComments = true

	cfg.Assembly.DefaultOrigin = "$0"
	cfg.Assembly.OverlapIsError = false
	cfg.Assembly.IncludePaths = ""
	cfg.Assembly.MaxMacroParams = 9

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "vm16asm")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "vm16asm")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file is
// not an error: it yields the default configuration.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

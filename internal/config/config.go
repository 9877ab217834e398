// Package config loads the CLI's one piece of ambient configuration from
// a TOML file: the default GPU family and the default output format.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the gcnasm CLI's configuration, loaded from gcnasm.toml.
type Config struct {
	Assemble struct {
		// DefaultGPU names the `.gpu` family assumed when a source file
		// carries no `.gpu` directive of its own.
		DefaultGPU string `toml:"default_gpu"`
		// OutputFormat names the default binary container format the
		// section's bytes are ultimately wrapped in. Nothing in this
		// repository reads it: the core never looks at it, and the CLI
		// writes the section's raw bytes.
		OutputFormat string `toml:"output_format"`
	} `toml:"assemble"`
}

// DefaultConfig returns a configuration with the CLI's built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Assemble.DefaultGPU = "SI"
	cfg.Assemble.OutputFormat = "rocm"
	return cfg
}

// Path returns the platform-specific config file path, ~/.config/gcnasm
// on Linux/macOS and %APPDATA%\gcnasm on Windows.
func Path() string {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		dir = filepath.Join(dir, "gcnasm")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "gcnasm.toml"
		}
		dir = filepath.Join(home, ".config", "gcnasm")
	}
	return filepath.Join(dir, "gcnasm.toml")
}

// Load reads configuration from the default config file, falling back to
// DefaultConfig when the file does not exist.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads configuration from path, falling back to DefaultConfig
// when the file does not exist.
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

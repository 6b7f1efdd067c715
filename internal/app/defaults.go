package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Defaults are the paths used before a config file exists.
type Defaults struct {
	ConfigPath string
	BaseDir    string
	LogDir     string
}

// GetDefaults resolves default paths. Environment variables win over the
// home-directory layout:
//   - OPALITE_CONFIG_PATH: config file (default ~/.config/opalite.toml)
//   - OPALITE_HOME: data directory holding the library, keys and logs (default ~/.local/share/opalite)
func GetDefaults() (*Defaults, error) {
	configPath, err := envOrHome("OPALITE_CONFIG_PATH", ".config", "opalite.toml")
	if err != nil {
		return nil, err
	}
	baseDir, err := envOrHome("OPALITE_HOME", ".local", "share", "opalite")
	if err != nil {
		return nil, err
	}

	return &Defaults{
		ConfigPath: configPath,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
	}, nil
}

func envOrHome(name string, rel ...string) (string, error) {
	if v := os.Getenv(name); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory for %s: %w", name, err)
	}
	return filepath.Join(append([]string{home}, rel...)...), nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultCatalogDir is the subdirectory within the user's home directory.
const defaultCatalogDir = ".config/brecha"

// ResolveCatalogPath finds the file named by catalog.source.
// An empty path stays empty (embedded catalog). Absolute paths are used directly.
// Relative paths are tried against the working directory, then ~/.config/brecha/.
func ResolveCatalogPath(configuredPath string) (string, error) {
	if configuredPath == "" || filepath.IsAbs(configuredPath) {
		return configuredPath, nil
	}

	if _, err := os.Stat(configuredPath); err == nil {
		return configuredPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	finalPath := filepath.Join(homeDir, defaultCatalogDir, configuredPath)
	if _, err := os.Stat(finalPath); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("catalog file '%s' not found in working directory or '%s': %w",
				configuredPath, filepath.Join(homeDir, defaultCatalogDir), err)
		}
		return "", fmt.Errorf("failed to stat catalog file '%s': %w", finalPath, err)
	}
	return finalPath, nil
}

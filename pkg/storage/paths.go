package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DataDirectory returns the per-user data directory for docharvest, joined
// with sub, creating it with perm when missing
func DataDirectory(sub string, perm os.FileMode) (string, error) {
	var dataDir string

	switch runtime.GOOS {
	case "linux":
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			dataDir = filepath.Join(xdgDataHome, "docharvest")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share", "docharvest")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, "Library", "Application Support", "docharvest")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		dataDir = filepath.Join(appData, "docharvest")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	dir := filepath.Join(dataDir, sub)
	if err := os.MkdirAll(dir, perm); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}

package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "odatacomplete"

func Dir() string {
	if override := os.Getenv("ODATACOMPLETE_CONFIG_DIR"); override != "" {
		return override
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", appName)
	default:
		return filepath.Join(home, ".config", appName)
	}
}

func HistoryPath() string {
	return filepath.Join(Dir(), "history.db")
}

func LogPath() string {
	return filepath.Join(Dir(), appName+".log")
}

package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appName = "wtldr"

// GetConfigDir returns $XDG_CONFIG_HOME/wtldr, or ~/.config/wtldr when unset.
func GetConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return filepath.Join(GetHomeDir(), ".config", appName)
}

// GetConfigFilePath returns the default config.toml location.
func GetConfigFilePath() string {
	return filepath.Join(GetConfigDir(), "config.toml")
}

// DefaultDataDir is where the message log and credentials live unless
// data_directory says otherwise. The result is unexpanded.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return "~/.local/share/" + appName
}

// GetHomeDir returns the user's home directory, or the filesystem root if it cannot
// be determined.
func GetHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	return string(filepath.Separator)
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" {
		path = GetHomeDir()
	} else if strings.HasPrefix(path, "~/") {
		path = filepath.Join(GetHomeDir(), path[2:])
	}

	return filepath.Clean(os.ExpandEnv(path))
}

// EnsureDir creates path with user-only access if it does not exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0700)
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

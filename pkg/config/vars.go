package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "filmdb"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/filmdb by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/filmdb by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/filmdb/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/filmdb/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// SQLiteFilePath resolves the SQLite database file. Absolute paths
// are kept, relative ones live in the cache directory.
func SQLiteFilePath(homeDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(CacheDir(homeDir), path)
}

// Package iofs prepares the file system layout of filmdb.
package iofs

import (
	_ "embed"
	"io"
	"os"

	"github.com/filmograph/filmdb/pkg/config"
)

// ConfigYAML is the template written to a fresh config.yaml.
//
//go:embed config.yaml
var ConfigYAML string

// EnsureDirs creates config, cache and log directories under homeDir.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.CacheDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the config template unless config.yaml exists.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)
	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}
	return nil
}

// Open opens a local file for reading, such as a downloaded weekly
// spreadsheet.
func Open(path string) (io.ReadCloser, error) {
	res, err := os.Open(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}
	return res, nil
}

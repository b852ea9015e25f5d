package config

import (
	"os"
	"path/filepath"
)

const (
	dirName = ".twin-memory"

	defaultWorkingCapacity   = 10
	defaultShortTermCapacity = 50
	defaultProfileName       = "User"
	defaultMaxTokens         = 2048
	defaultListen            = ":8000"
	defaultLogLevel          = "info"
)

// DefaultDir returns ~/.twin-memory, or a relative .twin-memory when the
// home directory is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dirName
	}
	return filepath.Join(home, dirName)
}

// NewDefaultConfig returns the defaults rooted at dir.
func NewDefaultConfig(dir string) *Config {
	return &Config{
		Dir: dir,
		Memory: MemoryConfig{
			Path:              filepath.Join(dir, "memories.json"),
			WorkingCapacity:   defaultWorkingCapacity,
			ShortTermCapacity: defaultShortTermCapacity,
		},
		Profile: ProfileConfig{
			Path: filepath.Join(dir, "profile.yaml"),
			Name: defaultProfileName,
		},
		Provider: ProviderConfig{
			MaxTokens: defaultMaxTokens,
		},
		Server: ServerConfig{Listen: defaultListen},
		Log:    LogConfig{Level: defaultLogLevel},
	}
}

// Package config resolves settings from flags, TWIN_* environment
// variables, an optional config file and built-in defaults.
package config

// Config is the resolved application configuration.
type Config struct {
	Dir      string
	Memory   MemoryConfig
	Profile  ProfileConfig
	Provider ProviderConfig
	Server   ServerConfig
	Log      LogConfig
}

// MemoryConfig sizes the memory tiers and locates the snapshot.
type MemoryConfig struct {
	Path              string
	WorkingCapacity   int
	ShortTermCapacity int
}

// ProfileConfig locates the profile file.
type ProfileConfig struct {
	Path string
	Name string
}

// ProviderConfig selects the language model.
type ProviderConfig struct {
	Model     string
	APIKey    string
	MaxTokens int
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Listen string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
	JSON  bool
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Viper keys.
const (
	KeyMemoryPath        = "memory.path"
	KeyWorkingCapacity   = "memory.working_capacity"
	KeyShortTermCapacity = "memory.short_term_capacity"
	KeyProfilePath       = "profile.path"
	KeyProfileName       = "profile.name"
	KeyProviderModel     = "provider.model"
	KeyProviderAPIKey    = "provider.api_key"
	KeyProviderMaxTokens = "provider.max_tokens"
	KeyServerListen      = "server.listen"
	KeyLogLevel          = "log.level"
	KeyLogJSON           = "log.json"
)

// InitViper returns a viper instance with defaults for dir, the optional
// config.{yaml,toml,json} from dir, and TWIN_ environment bindings.
//
// Precedence, highest first:
//  1. flags bound with BindRegisteredFlags
//  2. environment (TWIN_MEMORY_PATH, TWIN_SERVER_LISTEN, ...)
//  3. config file
//  4. defaults
func InitViper(dir string) (*viper.Viper, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	v := viper.New()
	setViperDefaults(v, NewDefaultConfig(dir))

	v.SetConfigName("config")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("TWIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

func setViperDefaults(v *viper.Viper, d *Config) {
	v.SetDefault(KeyMemoryPath, d.Memory.Path)
	v.SetDefault(KeyWorkingCapacity, d.Memory.WorkingCapacity)
	v.SetDefault(KeyShortTermCapacity, d.Memory.ShortTermCapacity)

	v.SetDefault(KeyProfilePath, d.Profile.Path)
	v.SetDefault(KeyProfileName, d.Profile.Name)

	v.SetDefault(KeyProviderModel, d.Provider.Model)
	v.SetDefault(KeyProviderAPIKey, d.Provider.APIKey)
	v.SetDefault(KeyProviderMaxTokens, d.Provider.MaxTokens)

	v.SetDefault(KeyServerListen, d.Server.Listen)

	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogJSON, d.Log.JSON)
}

// Resolve reads the effective configuration out of v.
func Resolve(v *viper.Viper, dir string) (*Config, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	c := &Config{
		Dir: dir,
		Memory: MemoryConfig{
			Path:              expandHome(v.GetString(KeyMemoryPath)),
			WorkingCapacity:   v.GetInt(KeyWorkingCapacity),
			ShortTermCapacity: v.GetInt(KeyShortTermCapacity),
		},
		Profile: ProfileConfig{
			Path: expandHome(v.GetString(KeyProfilePath)),
			Name: v.GetString(KeyProfileName),
		},
		Provider: ProviderConfig{
			Model:     v.GetString(KeyProviderModel),
			APIKey:    v.GetString(KeyProviderAPIKey),
			MaxTokens: v.GetInt(KeyProviderMaxTokens),
		},
		Server: ServerConfig{Listen: v.GetString(KeyServerListen)},
		Log: LogConfig{
			Level: v.GetString(KeyLogLevel),
			JSON:  v.GetBool(KeyLogJSON),
		},
	}

	if c.Memory.Path == "" {
		return nil, errors.New("memory.path must not be empty")
	}
	if c.Memory.WorkingCapacity < 1 {
		return nil, fmt.Errorf("memory.working_capacity must be at least 1, got %d", c.Memory.WorkingCapacity)
	}
	if c.Memory.ShortTermCapacity < 1 {
		return nil, fmt.Errorf("memory.short_term_capacity must be at least 1, got %d", c.Memory.ShortTermCapacity)
	}
	if c.Provider.MaxTokens < 1 {
		return nil, fmt.Errorf("provider.max_tokens must be at least 1, got %d", c.Provider.MaxTokens)
	}
	return c, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

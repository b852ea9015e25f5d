package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Flag ties a CLI flag to the viper key it overrides.
type Flag struct {
	Name        string
	Shorthand   string
	ViperKey    string
	Description string
}

// FlagSet maps registry keys to flag definitions.
type FlagSet map[string]Flag

// Flag registry keys.
const (
	FlagMemory    = "memory"
	FlagProfile   = "profile"
	FlagName      = "name"
	FlagModel     = "model"
	FlagMaxTokens = "max-tokens"
	FlagListen    = "listen"
	FlagLogLevel  = "log-level"
	FlagLogJSON   = "log-json"
)

// Flags is the registry shared by all commands.
var Flags = FlagSet{
	FlagMemory:    {Name: "memory", Shorthand: "m", ViperKey: KeyMemoryPath, Description: "Memory snapshot path"},
	FlagProfile:   {Name: "profile", ViperKey: KeyProfilePath, Description: "Profile YAML path"},
	FlagName:      {Name: "name", ViperKey: KeyProfileName, Description: "Profile name used when no profile file exists"},
	FlagModel:     {Name: "model", ViperKey: KeyProviderModel, Description: "Language model name"},
	FlagMaxTokens: {Name: "max-tokens", ViperKey: KeyProviderMaxTokens, Description: "Maximum reply tokens"},
	FlagListen:    {Name: "listen", Shorthand: "l", ViperKey: KeyServerListen, Description: "HTTP listen address"},
	FlagLogLevel:  {Name: "log-level", ViperKey: KeyLogLevel, Description: "Log level: debug, info, warn, error"},
	FlagLogJSON:   {Name: "log-json", ViperKey: KeyLogJSON, Description: "Emit JSON logs"},
}

// AddStringFlag registers a string flag whose default is the empty string;
// the effective default comes from viper.
func AddStringFlag(flags *pflag.FlagSet, fs FlagSet, key string) {
	def, ok := fs[key]
	if !ok {
		return
	}
	flags.StringP(def.Name, def.Shorthand, "", def.Description)
}

// AddIntFlag registers an int flag.
func AddIntFlag(flags *pflag.FlagSet, fs FlagSet, key string) {
	def, ok := fs[key]
	if !ok {
		return
	}
	flags.IntP(def.Name, def.Shorthand, 0, def.Description)
}

// AddBoolFlag registers a bool flag.
func AddBoolFlag(flags *pflag.FlagSet, fs FlagSet, key string) {
	def, ok := fs[key]
	if !ok {
		return
	}
	flags.BoolP(def.Name, def.Shorthand, false, def.Description)
}

// BindRegisteredFlags binds the flags named by keys to viper. Only flags the
// user actually set override lower layers. Call it after flags are parsed.
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, keys []string) {
	for _, key := range keys {
		def, ok := fs[key]
		if !ok {
			continue
		}
		f := cmd.Flags().Lookup(def.Name)
		if f == nil || !f.Changed {
			continue
		}
		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// Package cli implements the twin-memory CLI commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rcliao/twin-memory/internal/agent"
	"github.com/rcliao/twin-memory/internal/config"
	"github.com/rcliao/twin-memory/internal/logging"
	"github.com/rcliao/twin-memory/internal/profile"
	"github.com/rcliao/twin-memory/internal/provider"
	"github.com/rcliao/twin-memory/internal/store"
)

var (
	configDir  string
	formatFlag string
	debugFlag  bool

	v      *viper.Viper
	cfg    *config.Config
	logger = logging.Nop()
)

var persistentFlags = []string{config.FlagMemory, config.FlagLogLevel, config.FlagLogJSON}

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "twin-memory",
	Short: "Tiered conversational memory for a digital twin",
	Long: "Working, short-term and long-term memory for a conversational agent. " +
		"Interactions overflow from short-term into scored, tagged long-term memories kept in one JSON snapshot.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config", "", "Config directory (default: ~/.twin-memory)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging")
	config.AddStringFlag(RootCmd.PersistentFlags(), config.Flags, config.FlagMemory)
	config.AddStringFlag(RootCmd.PersistentFlags(), config.Flags, config.FlagLogLevel)
	config.AddBoolFlag(RootCmd.PersistentFlags(), config.Flags, config.FlagLogJSON)
}

// setup resolves configuration once flags are parsed. Command-local flags
// registered through the config registry are bound here too.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	v, err = config.InitViper(configDir)
	if err != nil {
		return err
	}
	keys := append([]string{}, persistentFlags...)
	keys = append(keys, config.FlagProfile, config.FlagName, config.FlagModel, config.FlagMaxTokens, config.FlagListen)
	config.BindRegisteredFlags(v, cmd, config.Flags, keys)

	cfg, err = config.Resolve(v, configDir)
	if err != nil {
		return err
	}

	logger = logging.New(
		logging.WithLevel(logging.ParseLevel(cfg.Log.Level)),
		logging.WithDebug(debugFlag),
		logging.WithJSON(cfg.Log.JSON),
	)
	return nil
}

// openStore builds the store and loads its snapshot. A snapshot that cannot
// be read is reported and the store starts empty; a corrupt one is kept
// beside the original path with a .corrupt suffix.
func openStore() (*store.Store, error) {
	s, err := store.New(cfg.Memory.Path,
		store.WithWorkingCapacity(cfg.Memory.WorkingCapacity),
		store.WithShortTermCapacity(cfg.Memory.ShortTermCapacity),
		store.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	var pe *store.PersistenceError
	if err := s.Load(); err != nil {
		if !errors.As(err, &pe) {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "warning: %v; starting with empty memory\n", pe)
	}
	return s, nil
}

// openAgent wires a store, the profile and the language model provider.
func openAgent() (*agent.Agent, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}
	p, err := profile.Load(cfg.Profile.Path, cfg.Profile.Name)
	if err != nil {
		return nil, err
	}
	llm := provider.NewAnthropic(cfg.Provider.APIKey, cfg.Provider.Model)
	return agent.New(s, p, llm,
		agent.WithLogger(logger),
		agent.WithMaxTokens(cfg.Provider.MaxTokens),
		agent.WithProfilePath(cfg.Profile.Path),
	), nil
}

func printJSON(w io.Writer, x any) {
	b, _ := json.MarshalIndent(x, "", "  ")
	fmt.Fprintln(w, string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigGuessList          = "guess-list"
	ConfigSolutionList       = "solution-list"
	ConfigEntropyCheckpoint  = "entropy-checkpoint"
	ConfigHardModeCheckpoint = "hard-mode-checkpoint"
	ConfigCheckpointEvery    = "checkpoint-every"
	ConfigThreads            = "threads"
	ConfigStrictFeedback     = "strict-feedback"
	ConfigHardMode           = "hard-mode"
	ConfigDebug              = "debug"
	ConfigCPUProfile         = "cpu-profile"
	ConfigMemProfile         = "mem-profile"
	ConfigConfigFile         = "config-file"
)

// pathKeys are resolved against the executable's directory when relative.
var pathKeys = []string{
	ConfigGuessList, ConfigSolutionList, ConfigEntropyCheckpoint, ConfigHardModeCheckpoint,
}

type Config struct {
	*viper.Viper
	// Args holds whatever was left over after flag parsing.
	Args []string
}

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("wordle-entropy", pflag.ContinueOnError)
	fs.String(ConfigGuessList, "./data/guesses.txt", "file with every allowed guess, one per line")
	fs.String(ConfigSolutionList, "./data/solutions.txt", "file with every possible answer, one per line")
	fs.String(ConfigEntropyCheckpoint, "wordle.checkpoint", "entropy cache for the full solution list")
	fs.String(ConfigHardModeCheckpoint, "hard_mode_diff.checkpoint", "hard-mode analysis checkpoint")
	fs.Int(ConfigCheckpointEvery, 20, "save checkpoints after this many new results")
	fs.Int(ConfigThreads, runtime.NumCPU(), "goroutines used to score guesses")
	fs.Bool(ConfigStrictFeedback, false, "score repeated letters the way the real game does")
	fs.Bool(ConfigHardMode, true, "restrict later guesses to words consistent with the feedback")
	fs.Bool(ConfigDebug, false, "debug logging")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a memory profile to this file")
	fs.String(ConfigConfigFile, "", "optional YAML or TOML file with any of these settings")
	return fs
}

// DefaultConfig has every key at its default value.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	fs := flagSet()
	if err := c.BindPFlags(fs); err != nil {
		panic(err)
	}
	return c
}

// Load parses command-line flags and, if one is named, a config file.
// Flags win over the file.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	fs := flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.Args = fs.Args()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}
	if f := c.GetString(ConfigConfigFile); f != "" {
		c.SetConfigFile(f)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading %s: %w", f, err)
		}
	}
	if c.GetInt(ConfigCheckpointEvery) <= 0 {
		return errors.New("checkpoint-every must be positive")
	}
	return nil
}

// AdjustRelativePaths points relative data paths at the executable's
// directory when they do not exist relative to the working directory.
// Checkpoints that do not exist yet are left alone.
func (c *Config) AdjustRelativePaths(basePath string) {
	for _, key := range pathKeys {
		p := c.GetString(key)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			continue
		}
		candidate := filepath.Join(basePath, p)
		if _, err := os.Stat(candidate); err == nil {
			c.Set(key, candidate)
		}
	}
}

// SanitizedSettings is for logging.
func (c *Config) SanitizedSettings() map[string]any {
	out := map[string]any{}
	for _, k := range c.AllKeys() {
		out[k] = c.Get(k)
	}
	return out
}

func (c *Config) String() string {
	var sb strings.Builder
	keys := c.AllKeys()
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s: %v\n", k, c.Get(k))
	}
	return sb.String()
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-summarizer CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-summarizer/internal/secrets"
	"github.com/pdiddy/paper-summarizer/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// envPrefix namespaces environment overrides, e.g.
// PAPER_SUMMARIZER_GENERATOR_BACKEND=claude.
const envPrefix = "PAPER_SUMMARIZER"

// optionalKeys are settings that are empty by default and therefore absent
// from the marshaled defaults. Registering them lets environment variables
// set them.
var optionalKeys = []string{
	"embedder.endpoint",
	"embedder.model",
	"embedder.api_key",
	"generator.api_key",
	"generator.project_id",
	"tagger.api_key",
	"sections.vocabulary_file",
	"graph.vocabulary_file",
}

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the paper-summarizer CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-summarizer",
	Short: "Structured summaries of scholarly papers",
	Long: `paper-summarizer turns a research paper into a structured summary: an
overall synopsis, per-section summaries, keywords, the datasets, models,
metrics and frameworks it mentions, and a flowchart of its method.

Input is a PDF or a pre-extracted document in YAML or JSON. Model backends
are configured in paper-summarizer.yaml; the defaults run fully offline.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		asJSON, _ := cmd.Flags().GetBool("log-json")
		logger, err := newLogger(os.Stderr, level, asJSON)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			slog.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paper-summarizer.yaml or ~/.config/paper-summarizer/paper-summarizer.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("log-json", false, "emit logs as JSON")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if err := setupViper(viper.GetViper(), cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", used)
	}
}

// setupViper registers defaults, config search paths and environment
// overrides on v and reads the config file if one exists.
func setupViper(v *viper.Viper, cfgFile string) error {
	defaults, err := defaultSettings()
	if err != nil {
		return err
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	for _, k := range optionalKeys {
		v.SetDefault(k, "")
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("paper-summarizer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "paper-summarizer"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// defaultSettings flattens types.DefaultConfig into a settings map keyed
// by the yaml field names, so every key is known to viper and can be
// overridden from the environment.
func defaultSettings() (map[string]any, error) {
	data, err := yaml.Marshal(types.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("encoding default config: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding default config: %w", err)
	}
	return m, nil
}

// loadConfig decodes the settings in v over types.DefaultConfig and fills
// API keys from secrets.
func loadConfig(v *viper.Viper, s map[string]string) (types.Config, error) {
	cfg := types.DefaultConfig()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		Squash:           true,
		WeaklyTypedInput: true,
		Result:           &cfg,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return types.Config{}, fmt.Errorf("building config decoder: %w", err)
	}
	if err := dec.Decode(v.AllSettings()); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	secrets.Apply(&cfg, s)
	return cfg, nil
}

// newLogger builds the CLI logger writing to w.
func newLogger(w io.Writer, level string, asJSON bool) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-atlas CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-atlas/internal/secrets"
	"github.com/pdiddy/research-atlas/internal/store"
	"github.com/pdiddy/research-atlas/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the research-atlas CLI.
var rootCmd = &cobra.Command{
	Use:   "research-atlas",
	Short: "Indonesian scholarly publication atlas",
	Long: `research-atlas builds a local atlas of Indonesian scholarly output. It
fetches publications from OpenAlex, verifies Indonesian affiliations,
filters for quality, persists everything to SQLite, and discovers
research topics over the stored corpus.

Each stage is a subcommand: fetch pulls and stores publications, topics
models and inspects the discovered topic set, and publications browses
the stored corpus.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
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
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-atlas.yaml or ~/.config/research-atlas/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (default: data/publications.db)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-atlas")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-atlas"))
		}
	}

	viper.SetEnvPrefix("RESEARCH_ATLAS")
	viper.AutomaticEnv()

	viper.SetDefault("database.path", "data/publications.db")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// databasePath resolves the store location: --db flag, then config.
func databasePath(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("db"); path != "" {
		return path
	}
	return viper.GetString("database.path")
}

// openStore opens the SQLite store for a command. The caller closes it.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	return store.Open(types.StoreConfig{DatabasePath: databasePath(cmd)})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the xtaltools CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the xtaltools CLI.
var rootCmd = &cobra.Command{
	Use:   "xtaltools",
	Short: "Crystallography lab automation",
	Long: `xtaltools automates routine X-ray crystallography chores around the RCSB
Protein Data Bank, PyMOL and phenix.

Each procedure is a subcommand: search resolves the structures of a UniProt
accession, conditions writes their crystallization conditions to CSV, align
and contacts build PyMOL sessions, validate checks a model before deposition,
and table1 assembles the data collection and refinement statistics.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./xtaltools.yaml or ~/.config/xtaltools/xtaltools.yaml)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	bindFlag("http.timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	setDefaults()
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("xtaltools")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "xtaltools"))
		}
	}

	viper.SetEnvPrefix("XTALTOOLS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/xtaltools/internal/conditions"
	"github.com/pdiddy/xtaltools/internal/phenix"
	"github.com/pdiddy/xtaltools/internal/pymol"
	"github.com/pdiddy/xtaltools/internal/search"
	"github.com/pdiddy/xtaltools/internal/store"
	"github.com/pdiddy/xtaltools/internal/validate"
	"github.com/pdiddy/xtaltools/pkg/types"
)

const defaultUserAgent = "xtaltools/0.1"

func setDefaults() {
	viper.SetDefault("http.timeout", 60*time.Second)
	viper.SetDefault("http.user_agent", defaultUserAgent)
	viper.SetDefault("search.scope", string(types.ScopeEntry))
	viper.SetDefault("search.max_resolution", search.DefaultMaxResolution)
	viper.SetDefault("conditions.workers", conditions.DefaultWorkers)
	viper.SetDefault("tools.pymol", pymol.DefaultBinary)
	viper.SetDefault("tools.phenix", phenix.DefaultBinary)
	viper.SetDefault("align.rmsd_cutoff", pymol.DefaultRMSDCutoff)
	viper.SetDefault("align.output_dir", ".")
	viper.SetDefault("contacts.cutoff", pymol.DefaultContactCutoff)
	viper.SetDefault("contacts.output_dir", ".")
	viper.SetDefault("validation.contact_cutoff", validate.DefaultContactCutoff)
	viper.SetDefault("store.path", store.DefaultPath)
}

// bindFlag binds a flag to a nested config key. Keys and flags are static,
// so a failure is a programming error.
func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}

func httpConfig() types.HTTPConfig {
	return types.HTTPConfig{
		Timeout:   viper.GetDuration("http.timeout"),
		UserAgent: viper.GetString("http.user_agent"),
	}
}

func loadConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Search: types.SearchConfig{
			HTTPConfig:    httpConfig(),
			Scope:         types.Scope(viper.GetString("search.scope")),
			MaxResolution: viper.GetFloat64("search.max_resolution"),
		},
		Conditions: types.ConditionsConfig{
			HTTPConfig: httpConfig(),
			Workers:    viper.GetInt("conditions.workers"),
			Output:     viper.GetString("conditions.output"),
			DBPath:     viper.GetString("conditions.db_path"),
		},
		Tools: types.ToolConfig{
			PyMOL:  viper.GetString("tools.pymol"),
			Phenix: viper.GetString("tools.phenix"),
		},
		Align: types.AlignConfig{
			RMSDCutoff: viper.GetFloat64("align.rmsd_cutoff"),
			OutputDir:  viper.GetString("align.output_dir"),
		},
		Contacts: types.ContactsConfig{
			Cutoff:    viper.GetFloat64("contacts.cutoff"),
			OutputDir: viper.GetString("contacts.output_dir"),
		},
		Validation: types.ValidationConfig{
			ContactCutoff: viper.GetFloat64("validation.contact_cutoff"),
		},
		Store: types.StoreConfig{
			Path: viper.GetString("store.path"),
		},
	}
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(&cfg); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

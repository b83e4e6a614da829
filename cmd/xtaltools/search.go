// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/xtaltools/internal/httputil"
	"github.com/pdiddy/xtaltools/internal/search"
	"github.com/pdiddy/xtaltools/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "List the PDB structures of a UniProt accession",
	Long: `Search queries the RCSB search service for X-ray structures of a UniProt
accession at or below the resolution ceiling (default 3.0 A). With
--scope polymer_instance the matching chains of each entry are listed too.

Use --save to write the result to a YAML query file that conditions --from
can read later without querying RCSB again.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("uniprot", "", "UniProt accession (required)")
	searchCmd.Flags().String("scope", "", "result granularity: entry or polymer_instance")
	searchCmd.Flags().Float64("max-resolution", 0, "resolution ceiling in Angstrom (default 3.0)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("save", "", "write the result to a YAML query file")
	_ = searchCmd.MarkFlagRequired("uniprot")

	bindFlag("search.scope", searchCmd.Flags().Lookup("scope"))
	bindFlag("search.max_resolution", searchCmd.Flags().Lookup("max-resolution"))

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	accession, _ := cmd.Flags().GetString("uniprot")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	savePath, _ := cmd.Flags().GetString("save")

	cfg := loadConfig().Search
	scope, err := types.ParseScope(string(cfg.Scope))
	if err != nil {
		return err
	}
	cfg.Scope = scope

	client := httputil.NewClient(cfg.HTTPConfig)
	defer client.Close()

	resolver := &search.Resolver{Client: client, MaxResolution: cfg.MaxResolution}
	set, err := resolver.Resolve(context.Background(), accession, scope)
	if err != nil {
		return err
	}

	if savePath != "" {
		if err := search.WriteQueryFile(savePath, accession, cfg, set); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved %d entries to %s\n", set.Len(), savePath)
	}

	if jsonOutput {
		return search.FormatJSON(set, os.Stdout)
	}
	search.FormatTable(set, os.Stdout)
	return nil
}

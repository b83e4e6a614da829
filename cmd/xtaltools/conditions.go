// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/xtaltools/internal/conditions"
	"github.com/pdiddy/xtaltools/internal/entry"
	"github.com/pdiddy/xtaltools/internal/httputil"
	"github.com/pdiddy/xtaltools/internal/search"
	"github.com/pdiddy/xtaltools/internal/store"
	"github.com/pdiddy/xtaltools/pkg/types"
)

var conditionsCmd = &cobra.Command{
	Use:   "conditions",
	Short: "Write the crystallization conditions of a UniProt accession to CSV",
	Long: `Conditions resolves the PDB entries of a UniProt accession and fetches
the crystallization conditions, unit cell, citation, expression host and
sequence of each entry in parallel. Fields that cannot be retrieved are
written as "-"; entries whose main document cannot be retrieved are listed
after the batch and left out of the report.

The report is sorted by PDB id and replaces any existing file. With --db the
records are also saved to the SQLite store.`,
	RunE: runConditions,
}

func init() {
	conditionsCmd.Flags().String("uniprot", "", "UniProt accession (required)")
	conditionsCmd.Flags().String("output", "", "CSV report path (default <accession>.csv)")
	conditionsCmd.Flags().Int("workers", 0, "entries fetched in parallel (default 10)")
	conditionsCmd.Flags().String("db", "", "also save records to this SQLite database")
	conditionsCmd.Flags().String("from", "", "read identifiers from a query file written by search --save")
	_ = conditionsCmd.MarkFlagRequired("uniprot")

	bindFlag("conditions.output", conditionsCmd.Flags().Lookup("output"))
	bindFlag("conditions.workers", conditionsCmd.Flags().Lookup("workers"))
	bindFlag("conditions.db_path", conditionsCmd.Flags().Lookup("db"))

	rootCmd.AddCommand(conditionsCmd)
}

func runConditions(cmd *cobra.Command, args []string) error {
	accession, _ := cmd.Flags().GetString("uniprot")
	fromFile, _ := cmd.Flags().GetString("from")

	pc := loadConfig()
	cfg := pc.Conditions
	if cfg.Workers <= 0 {
		cfg.Workers = conditions.DefaultWorkers
	}
	cfg.MaxIdleConnsPerHost = cfg.Workers
	output := cfg.Output
	if output == "" {
		output = accession + ".csv"
	}

	client := httputil.NewClient(cfg.HTTPConfig)
	defer client.Close()

	p := &conditions.Pipeline{
		Resolver: &search.Resolver{Client: client, MaxResolution: pc.Search.MaxResolution},
		Fetcher:  &entry.Fetcher{Client: client},
		Workers:  cfg.Workers,
	}
	if fromFile != "" {
		qf, err := search.ReadQueryFile(fromFile)
		if err != nil {
			return err
		}
		p.Resolver = qf
	}
	if cfg.DBPath != "" {
		s, err := store.Open(types.StoreConfig{Path: cfg.DBPath})
		if err != nil {
			return err
		}
		defer s.Close()
		p.Sink = s
	}

	result, err := p.Run(context.Background(), accession, output, os.Stdout)
	if err != nil {
		return err
	}
	if cfg.DBPath != "" && len(result.Records) > 0 {
		fmt.Fprintf(os.Stdout, "saved %d records to %s\n", len(result.Records), cfg.DBPath)
	}
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/xtaltools/internal/httputil"
	"github.com/pdiddy/xtaltools/internal/pymol"
	"github.com/pdiddy/xtaltools/internal/search"
	"github.com/pdiddy/xtaltools/pkg/types"
)

var alignCmd = &cobra.Command{
	Use:   "align [pdb-ids...]",
	Short: "Fetch and superpose the structures of a UniProt accession in PyMOL",
	Long: `Align fetches every structure of a UniProt accession (or the PDB ids
given as arguments), splits each entry into chains, and superposes every
chain's backbone on a reference chain. Chains whose RMSD exceeds the cutoff,
or that PyMOL cannot align, go to <accession>_error.pse; the rest are saved
to <accession>.pse.`,
	RunE: runAlign,
}

func init() {
	alignCmd.Flags().String("uniprot", "", "UniProt accession; names the sessions (required)")
	alignCmd.Flags().String("ref", "", "reference PDB id (default: first chain object)")
	alignCmd.Flags().String("ref-chain", "", "reference chain id, used with --ref")
	alignCmd.Flags().Float64("rmsd-cutoff", 0, "flag chains above this RMSD (default 3.0)")
	alignCmd.Flags().String("output-dir", "", "directory for the .pse sessions")
	_ = alignCmd.MarkFlagRequired("uniprot")

	bindFlag("align.rmsd_cutoff", alignCmd.Flags().Lookup("rmsd-cutoff"))
	bindFlag("align.output_dir", alignCmd.Flags().Lookup("output-dir"))

	rootCmd.AddCommand(alignCmd)
}

func runAlign(cmd *cobra.Command, args []string) error {
	accession, _ := cmd.Flags().GetString("uniprot")
	ref, _ := cmd.Flags().GetString("ref")
	refChain, _ := cmd.Flags().GetString("ref-chain")
	if ref != "" && refChain == "" {
		return fmt.Errorf("--ref needs --ref-chain")
	}

	pc := loadConfig()
	ctx := context.Background()

	entries := args
	if len(entries) == 0 {
		client := httputil.NewClient(pc.Search.HTTPConfig)
		defer client.Close()

		resolver := &search.Resolver{Client: client, MaxResolution: pc.Search.MaxResolution}
		set, err := resolver.Resolve(ctx, accession, types.ScopeChainInstance)
		if err != nil {
			return err
		}
		if set.Len() == 0 {
			fmt.Fprintln(os.Stdout, "No results found.")
			return nil
		}
		entries = set.IDs()
	}

	report, err := pymol.New(pc.Tools).FetchAndAlign(ctx, pymol.AlignRequest{
		Name:       accession,
		Entries:    entries,
		RefEntry:   ref,
		RefChain:   refChain,
		RMSDCutoff: pc.Align.RMSDCutoff,
		OutputDir:  pc.Align.OutputDir,
	}, os.Stdout)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "saved %s\n", report.Session)
	if report.ErrorSession != "" {
		fmt.Fprintf(os.Stdout, "saved %s (%d flagged)\n", report.ErrorSession, len(report.Flagged()))
	}
	return nil
}

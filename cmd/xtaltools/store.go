// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/xtaltools/internal/conditions"
	"github.com/pdiddy/xtaltools/internal/store"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Query the SQLite store of crystallization conditions",
	Long: `Store reads the records saved by conditions --db. Use subcommands to list
accessions, query records, export them, or rewrite a CSV report without
contacting RCSB.`,
}

// --- accessions subcommand ---

var storeAccessionsCmd = &cobra.Command{
	Use:   "accessions",
	Short: "List the accessions in the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		sums, err := s.Accessions(context.Background())
		if err != nil {
			return err
		}
		if len(sums) == 0 {
			fmt.Println("No results found.")
			return nil
		}
		fmt.Fprintf(os.Stdout, "%-12s  %-7s  %s\n", "Accession", "Records", "Last fetch")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 44))
		for _, a := range sums {
			fmt.Fprintf(os.Stdout, "%-12s  %-7d  %s\n", a.Accession, a.Records, a.LastFetch.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

// --- list subcommand ---

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored records with optional filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		recs, err := s.List(context.Background(), storeQuery(cmd))
		if err != nil {
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(recs)
		}
		if len(recs) == 0 {
			fmt.Println("No results found.")
			return nil
		}

		fmt.Fprintf(os.Stdout, "%-10s  %-6s  %-6s  %-30s  %s\n", "Accession", "PDB", "Res", "Method", "Details")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
		for _, r := range recs {
			fmt.Fprintf(os.Stdout, "%-10s  %-6s  %-6s  %-30s  %s\n",
				r.Accession, r.PDBID, r.Resolution, truncate(r.XtalMethod, 30), truncate(r.XtalDetails, 40))
		}
		fmt.Fprintf(os.Stdout, "\n%d records\n", len(recs))
		return nil
	},
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored records to YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		var w io.Writer = os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}

		ctx := context.Background()
		switch format {
		case "yaml":
			return s.ExportYAML(ctx, storeQuery(cmd), w)
		case "json":
			return s.ExportJSON(ctx, storeQuery(cmd), w)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
	},
}

// --- report subcommand ---

var storeReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Rewrite the CSV report of an accession from the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		accession, _ := cmd.Flags().GetString("uniprot")
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = accession + ".csv"
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		recs, err := s.Records(context.Background(), accession)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Printf("No results found for %s.\n", accession)
			return nil
		}
		if err := conditions.WriteCSV(recs, output); err != nil {
			return err
		}
		fmt.Printf("CSV file '%s' created successfully with %d entries.\n", output, len(recs))
		return nil
	},
}

func openStore() (*store.Store, error) {
	return store.Open(loadConfig().Store)
}

func storeQuery(cmd *cobra.Command) store.QueryOptions {
	accession, _ := cmd.Flags().GetString("uniprot")
	method, _ := cmd.Flags().GetString("method")
	contains, _ := cmd.Flags().GetString("contains")
	return store.QueryOptions{Accession: accession, Method: method, Contains: contains}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func init() {
	storeCmd.PersistentFlags().String("db", "", "SQLite database (default xtaltools.db)")
	bindFlag("store.path", storeCmd.PersistentFlags().Lookup("db"))

	for _, c := range []*cobra.Command{storeListCmd, storeExportCmd} {
		c.Flags().String("uniprot", "", "filter by accession")
		c.Flags().String("method", "", "filter by crystallization method")
		c.Flags().String("contains", "", "filter by text in the crystallization details")
	}
	storeListCmd.Flags().Bool("json", false, "output results as JSON")

	storeExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	storeExportCmd.Flags().String("output", "", "write to file instead of stdout")

	storeReportCmd.Flags().String("uniprot", "", "accession to report (required)")
	storeReportCmd.Flags().String("output", "", "CSV report path (default <accession>.csv)")
	_ = storeReportCmd.MarkFlagRequired("uniprot")

	storeCmd.AddCommand(storeAccessionsCmd)
	storeCmd.AddCommand(storeListCmd)
	storeCmd.AddCommand(storeExportCmd)
	storeCmd.AddCommand(storeReportCmd)

	rootCmd.AddCommand(storeCmd)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/xtaltools/internal/phenix"
	"github.com/pdiddy/xtaltools/internal/pymol"
	"github.com/pdiddy/xtaltools/internal/table1"
)

var table1Cmd = &cobra.Command{
	Use:   "table1",
	Short: "Build Table 1 from XDS and refinement output",
	Long: `Table1 reads data collection statistics from an XDS CORRECT.LP file and
refinement statistics from the refined model (REMARK 3 header plus
phenix.model_statistics), and writes them as label,value lines. Either input
may be omitted; its section is left out. With --ligand the mean B factor of
that residue is added.`,
	RunE: runTable1,
}

func init() {
	table1Cmd.Flags().StringP("correct", "c", "", "CORRECT.LP file from XDS")
	table1Cmd.Flags().StringP("pdb", "p", "", "PDB file from refinement")
	table1Cmd.Flags().StringSliceP("cif", "f", nil, "CIF files from refinement")
	table1Cmd.Flags().StringP("ligand", "l", "", "ligand residue name")
	table1Cmd.Flags().StringP("output", "o", table1.DefaultOutput, "output CSV path")

	rootCmd.AddCommand(table1Cmd)
}

func runTable1(cmd *cobra.Command, args []string) error {
	correct, _ := cmd.Flags().GetString("correct")
	model, _ := cmd.Flags().GetString("pdb")
	cifs, _ := cmd.Flags().GetStringSlice("cif")
	ligand, _ := cmd.Flags().GetString("ligand")
	output, _ := cmd.Flags().GetString("output")

	pc := loadConfig()
	b := &table1.Builder{
		Stats:   phenix.New(pc.Tools),
		Ligands: pymol.New(pc.Tools),
	}
	tbl, err := b.Build(context.Background(), table1.Options{
		Correct: correct,
		Model:   model,
		CIFs:    cifs,
		Ligand:  ligand,
	})
	if err != nil {
		return err
	}
	if err := tbl.WriteCSV(output); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "wrote %s (%d rows)\n", output, len(tbl.Rows()))
	return nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/xtaltools/internal/phenix"
	"github.com/pdiddy/xtaltools/internal/pymol"
	"github.com/pdiddy/xtaltools/internal/seqalign"
	"github.com/pdiddy/xtaltools/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate <reference.fasta> <model.pdb>",
	Short: "Quick validation of a model before deposition",
	Long: `Validate aligns every chain of the model against the reference sequence
and reports mismatches, looks for polar contacts at or below the clash
cutoff (default 2.2 A), and prints the MolProbity summary from
phenix.model_statistics. Pass the ligand restraint files with --cif.`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringSlice("cif", nil, "CIF restraint files from refinement")
	validateCmd.Flags().Float64("contact-cutoff", 0, "clash distance in Angstrom (default 2.2)")

	bindFlag("validation.contact_cutoff", validateCmd.Flags().Lookup("contact-cutoff"))

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cifs, _ := cmd.Flags().GetStringSlice("cif")
	pc := loadConfig()

	v := &validate.Validator{
		Model:         pymol.New(pc.Tools),
		Stats:         phenix.New(pc.Tools),
		Scoring:       seqalign.DefaultScoring,
		ContactCutoff: pc.Validation.ContactCutoff,
		Out:           os.Stdout,
	}
	report, err := v.Run(context.Background(), validate.Options{
		Reference: args[0],
		Model:     args[1],
		CIFs:      cifs,
	})
	if err != nil {
		return err
	}
	if !report.Clean() {
		fmt.Fprintln(os.Stderr, "validation found problems, see above")
	}
	return nil
}

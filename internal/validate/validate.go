// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate runs quick checks on a refined model before deposition:
// chain sequences against the reference, close polar contacts, and the
// MolProbity summary from phenix.
package validate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pdiddy/xtaltools/internal/fasta"
	"github.com/pdiddy/xtaltools/internal/seqalign"
	"github.com/pdiddy/xtaltools/pkg/types"
)

// DefaultContactCutoff is the polar contact distance, in Angstrom, at or
// below which a contact is reported as a clash.
const DefaultContactCutoff = 2.2

// ErrMolProbity wraps a phenix failure. It usually means restraints for a
// ligand were not passed.
var ErrMolProbity = errors.New("error running phenix.model_statistics; did you include the CIF files? Please check manually")

// ModelInspector reads sequences and contacts from a model.
type ModelInspector interface {
	ModelSequences(ctx context.Context, model string) ([]fasta.Record, error)
	CloseContacts(ctx context.Context, model string, cutoff float64) (float64, error)
}

// StatsRunner computes model geometry statistics.
type StatsRunner interface {
	ModelStatistics(ctx context.Context, model string, cifs ...string) (types.ModelStatistics, error)
}

// Options names the inputs of one validation run.
type Options struct {
	// Reference is a FASTA file; its first record is the expected sequence.
	Reference string
	Model     string
	CIFs      []string
}

// ChainCheck is the sequence comparison for one model chain.
type ChainCheck struct {
	Name       string
	Mismatches []int
	Alignment  seqalign.Alignment
}

// Report is the outcome of a validation run.
type Report struct {
	Chains []ChainCheck

	// ContactDistance is the mean distance of close polar contacts, zero
	// when there are none.
	ContactDistance float64
	Stats           types.ModelStatistics
}

// Mismatched returns the chains whose sequence differs from the reference.
func (r Report) Mismatched() []ChainCheck {
	var out []ChainCheck
	for _, c := range r.Chains {
		if len(c.Mismatches) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Clean reports whether no check found a problem.
func (r Report) Clean() bool {
	return len(r.Mismatched()) == 0 && r.ContactDistance <= 0
}

// Validator runs the checks and logs findings to Out.
type Validator struct {
	Model         ModelInspector
	Stats         StatsRunner
	Scoring       seqalign.Scoring
	ContactCutoff float64
	Out           io.Writer
}

// Run executes every check in order. Sequence and contact problems are
// findings in the report; a failure to run a tool is an error.
func (v *Validator) Run(ctx context.Context, opts Options) (Report, error) {
	var report Report

	refs, err := fasta.ReadFile(opts.Reference)
	if err != nil {
		return report, fmt.Errorf("reading reference: %w", err)
	}
	if len(refs) == 0 || refs[0].Sequence == "" {
		return report, fmt.Errorf("reference %s has no sequence", opts.Reference)
	}
	ref := refs[0].Sequence

	chains, err := v.Model.ModelSequences(ctx, opts.Model)
	if err != nil {
		return report, fmt.Errorf("reading model sequences: %w", err)
	}
	report.Chains = v.checkSequences(ref, chains)

	cutoff := v.ContactCutoff
	if cutoff <= 0 {
		cutoff = DefaultContactCutoff
	}
	d, err := v.Model.CloseContacts(ctx, opts.Model, cutoff)
	if err != nil {
		return report, fmt.Errorf("measuring close contacts: %w", err)
	}
	report.ContactDistance = d
	if d > 0 {
		v.errorf("Polar contacts closer or equal to %g A found in the model.", cutoff)
	} else {
		v.infof("No polar contacts closer or equal to %g A found in the model.", cutoff)
	}

	st, err := v.Stats.ModelStatistics(ctx, opts.Model, opts.CIFs...)
	if err != nil {
		v.errorf("%v. Aborting.", ErrMolProbity)
		return report, fmt.Errorf("%w: %w", ErrMolProbity, err)
	}
	report.Stats = st
	v.infof("Bond RMSD: %g", st.BondRMSD)
	v.infof("Angle RMSD: %g", st.AngleRMSD)
	v.infof("Ramachandran Outliers: %g", st.Ramachandran.Outliers)
	v.infof("Ramachandran Allowed: %g", st.Ramachandran.Allowed)
	v.infof("Ramachandran Favored: %g", st.Ramachandran.Favored)
	v.infof("Rotamer Outliers: %g", st.RotamerOutliers)
	v.infof("All-atom Clashscore: %g", st.Clashscore)
	return report, nil
}

func (v *Validator) checkSequences(ref string, chains []fasta.Record) []ChainCheck {
	scoring := v.Scoring
	if scoring == (seqalign.Scoring{}) {
		scoring = seqalign.DefaultScoring
	}

	checks := make([]ChainCheck, 0, len(chains))
	for _, c := range chains {
		al := seqalign.Global(ref, c.Sequence, scoring)
		checks = append(checks, ChainCheck{Name: c.Header, Mismatches: al.Mismatches(), Alignment: al})
	}

	var bad []ChainCheck
	for _, c := range checks {
		if len(c.Mismatches) > 0 {
			bad = append(bad, c)
		}
	}
	if len(bad) == 0 {
		v.infof("No mismatches found")
		return checks
	}
	v.errorf("Mismatches found in the following models:")
	for _, c := range bad {
		v.infof("Mismatches in %s at positions: %v\n%s", c.Name, c.Mismatches, c.Alignment)
	}
	return checks
}

func (v *Validator) infof(format string, args ...any) { v.logf("INFO", format, args...) }

func (v *Validator) errorf(format string, args ...any) { v.logf("ERROR", format, args...) }

func (v *Validator) logf(level, format string, args ...any) {
	if v.Out == nil {
		return
	}
	fmt.Fprintf(v.Out, "[%s] %s\n", level, fmt.Sprintf(format, args...))
}

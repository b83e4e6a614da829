// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table1 assembles the crystallographic "Table 1" of a structure
// paper from the XDS CORRECT.LP log, the refined model's REMARK 3 header,
// phenix.model_statistics, and an optional ligand B factor.
package table1

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/xtaltools/internal/xds"
	"github.com/pdiddy/xtaltools/pkg/types"
)

// DefaultOutput is the report file written when no path is given.
const DefaultOutput = "table1.csv"

// StatsRunner computes model geometry statistics.
type StatsRunner interface {
	ModelStatistics(ctx context.Context, model string, cifs ...string) (types.ModelStatistics, error)
}

// BFactorProbe measures the mean B factor of a ligand.
type BFactorProbe interface {
	LigandBFactor(ctx context.Context, model, ligand string) (float64, error)
}

// Options names the inputs. Each section is built only when its input is set.
type Options struct {
	// Correct is the XDS CORRECT.LP log.
	Correct string

	// Model is the refined PDB file.
	Model string
	CIFs  []string

	// Ligand is a residue name whose mean B factor is reported. It needs Model.
	Ligand string
}

// Table holds the sections that were built. Nil sections are omitted.
type Table struct {
	DataCollection *types.DataCollection
	Refinement     *types.Refinement

	// LigandBFactor is set when a ligand was requested.
	LigandBFactor *float64
}

// Builder gathers the statistics for a Table.
type Builder struct {
	Stats   StatsRunner
	Ligands BFactorProbe
}

// Build reads every input named in opts.
func (b *Builder) Build(ctx context.Context, opts Options) (*Table, error) {
	if opts.Correct == "" && opts.Model == "" {
		return nil, errors.New("table1: need a CORRECT.LP file, a model, or both")
	}
	if opts.Ligand != "" && opts.Model == "" {
		return nil, errors.New("table1: a ligand B factor needs a model")
	}

	var t Table
	if opts.Correct != "" {
		dc, err := xds.ReadCorrect(opts.Correct)
		if err != nil {
			return nil, fmt.Errorf("data collection: %w", err)
		}
		t.DataCollection = &dc
	}

	if opts.Model != "" {
		ref, err := readRefinementHeader(opts.Model)
		if err != nil {
			return nil, fmt.Errorf("refinement: %w", err)
		}
		if b.Stats == nil {
			return nil, errors.New("refinement: no statistics runner configured")
		}
		st, err := b.Stats.ModelStatistics(ctx, opts.Model, opts.CIFs...)
		if err != nil {
			return nil, fmt.Errorf("refinement: %w", err)
		}
		ref.ModelStatistics = st
		t.Refinement = &ref
	}

	if opts.Ligand != "" {
		if b.Ligands == nil {
			return nil, errors.New("ligand: no B factor probe configured")
		}
		bf, err := b.Ligands.LigandBFactor(ctx, opts.Model, opts.Ligand)
		if err != nil {
			return nil, fmt.Errorf("ligand: %w", err)
		}
		t.Refinement.BFactors.Ligand = bf
		t.LigandBFactor = &bf
	}
	return &t, nil
}

func readRefinementHeader(path string) (types.Refinement, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.Refinement{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return ParseRefinementHeader(f)
}

// ParseRefinementHeader reads the resolution range and R factors from a
// PDB REMARK 3 block. R factors are returned as percentages.
func ParseRefinementHeader(r io.Reader) (types.Refinement, error) {
	var (
		ref   types.Refinement
		found int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		var (
			dst   *float64
			scale = 1.0
		)
		switch {
		case strings.Contains(line, "RESOLUTION RANGE HIGH"):
			dst = &ref.Resolution.High
		case strings.Contains(line, "RESOLUTION RANGE LOW"):
			dst = &ref.Resolution.Low
		case strings.Contains(line, "R VALUE            (WORKING SET) :"):
			dst, scale = &ref.RWork, 100
		case strings.Contains(line, "FREE R VALUE                     :"):
			dst, scale = &ref.RFree, 100
		default:
			continue
		}
		v, err := lastFloat(line)
		if err != nil {
			return ref, fmt.Errorf("parsing %q: %w", strings.TrimSpace(line), err)
		}
		*dst = v * scale
		found++
	}
	if err := sc.Err(); err != nil {
		return ref, fmt.Errorf("reading model header: %w", err)
	}
	if found == 0 {
		return ref, errors.New("no REMARK 3 refinement statistics found")
	}
	return ref, nil
}

func lastFloat(line string) (float64, error) {
	f := strings.Fields(line)
	if len(f) == 0 {
		return 0, errors.New("empty line")
	}
	return strconv.ParseFloat(f[len(f)-1], 64)
}

// Row is one label, value line of the table.
type Row struct {
	Label string
	Value string
}

// Rows formats the table. Headings carry a single-space value; the data
// collection section ends with a blank row.
func (t *Table) Rows() []Row {
	var rows []Row
	if dc := t.DataCollection; dc != nil {
		rows = append(rows,
			Row{"Wavelength", f2(dc.Wavelength)},
			Row{"Space Group", strconv.Itoa(dc.SpaceGroup)},
			Row{"Cell Dimensions", " "},
			Row{"a / b / c", join(f2(dc.Cell.A), f2(dc.Cell.B), f2(dc.Cell.C))},
			Row{"alpha / beta / gamma", join(f2(dc.Cell.Alpha), f2(dc.Cell.Beta), f2(dc.Cell.Gamma))},
			Row{"Resolution Range", fmt.Sprintf("%.2f - %.2f (%.2f - %.2f)",
				dc.Resolution.Low, dc.Resolution.High, dc.HighShell.Low, dc.HighShell.High)},
			Row{"Redundancy", shell(dc.Redundancy)},
			Row{"Completeness", shell(dc.Completeness)},
			Row{"Mean I/sigma(I)", shell(dc.MeanIOverSigma)},
			Row{"Rmeas", shell(dc.Rmeas)},
			Row{"CC half", shell(dc.CCHalf)},
			Row{"Wilson B factor", f2(dc.WilsonBFactor)},
			Row{"", ""},
		)
	}
	if ref := t.Refinement; ref != nil {
		rows = append(rows,
			Row{"Resolution Included", fmt.Sprintf("%.2f - %.2f", ref.Resolution.Low, ref.Resolution.High)},
			Row{"Rwork/Rfree", join(f2(ref.RWork), f2(ref.RFree))},
			Row{"Bond RMSD", fmt.Sprintf("%.3f", ref.BondRMSD)},
			Row{"Angle RMSD", fmt.Sprintf("%.3f", ref.AngleRMSD)},
			Row{"Ramachandran", " "},
			Row{"Favored / Allowed / Outliers", join(
				f2(ref.Ramachandran.Favored), f2(ref.Ramachandran.Allowed), f2(ref.Ramachandran.Outliers))},
			Row{"Rotamer Outliers", f2(ref.RotamerOutliers)},
			Row{"All Atom Clashscore", f2(ref.Clashscore)},
			Row{"Average B factor", " "},
			Row{"Overall", f2(ref.BFactors.Overall)},
			Row{"Protein", f2(ref.BFactors.Protein)},
			Row{"Water", f2(ref.BFactors.Water)},
		)
		if t.LigandBFactor != nil {
			rows = append(rows, Row{"Ligand", f2(*t.LigandBFactor)})
		}
	}
	return rows
}

// Write emits the rows as "label,value" lines.
func (t *Table) Write(w io.Writer) error {
	for _, r := range t.Rows() {
		if _, err := fmt.Fprintf(w, "%s,%s\n", r.Label, r.Value); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes the table to path, DefaultOutput when path is empty.
func (t *Table) WriteCSV(path string) error {
	if path == "" {
		path = DefaultOutput
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := t.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func f2(v float64) string { return fmt.Sprintf("%.2f", v) }

func join(vals ...string) string { return strings.Join(vals, " / ") }

func shell(p types.ShellPair) string {
	return fmt.Sprintf("%.2f (%.2f)", p.Total, p.High)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package phenix runs phenix.model_statistics and scrapes the geometry and
// validation summary from its report.
package phenix

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/xtaltools/internal/runner"
	"github.com/pdiddy/xtaltools/pkg/types"
)

// DefaultBinary is the statistics program used when ToolConfig.Phenix is empty.
const DefaultBinary = "phenix.model_statistics"

// ErrStatistics means phenix.model_statistics did not complete. The usual
// cause is a ligand without CIF restraints.
var ErrStatistics = errors.New("phenix.model_statistics failed")

// Tool runs phenix.model_statistics.
type Tool struct {
	Tool runner.Tool
}

// New returns a tool for the configured binary.
func New(cfg types.ToolConfig) *Tool {
	bin := cfg.Phenix
	if bin == "" {
		bin = DefaultBinary
	}
	return &Tool{Tool: runner.Tool{Bin: bin}}
}

// ModelStatistics runs the program on model with optional restraint files
// and parses its report.
func (t *Tool) ModelStatistics(ctx context.Context, model string, cifs ...string) (types.ModelStatistics, error) {
	args := append([]string{model}, cifs...)
	res, err := t.Tool.Run(ctx, args...)
	if err != nil {
		return types.ModelStatistics{}, fmt.Errorf("%w: %w", ErrStatistics, err)
	}
	return Parse(res.Stdout)
}

// Parse scrapes a model_statistics report. Lines are matched by their
// leading label; the Ramachandran block is the three lines after
// "Ramachandran Plot" in outliers, allowed, favored order.
func Parse(report string) (types.ModelStatistics, error) {
	var (
		st    types.ModelStatistics
		lines []string
	)
	sc := bufio.NewScanner(strings.NewReader(report))
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return st, fmt.Errorf("reading report: %w", err)
	}

	var found int
	for i, line := range lines {
		fields := strings.Fields(line)
		var err error
		switch {
		case strings.HasPrefix(line, "Bond"):
			st.BondRMSD, err = field(fields, 2)
		case strings.HasPrefix(line, "Angle"):
			st.AngleRMSD, err = field(fields, 2)
		case strings.HasPrefix(line, "Ramachandran Plot"):
			if i+3 >= len(lines) {
				return st, errors.New("truncated Ramachandran block")
			}
			if st.Ramachandran.Outliers, err = field(strings.Fields(lines[i+1]), 2); err != nil {
				break
			}
			if st.Ramachandran.Allowed, err = field(strings.Fields(lines[i+2]), 2); err != nil {
				break
			}
			st.Ramachandran.Favored, err = field(strings.Fields(lines[i+3]), 2)
		case strings.HasPrefix(line, "Rotamer Outliers"):
			st.RotamerOutliers, err = field(fields, 3)
		case strings.HasPrefix(line, "All-atom Clashscore"):
			st.Clashscore, err = field(fields, len(fields)-1)
		case strings.HasPrefix(line, "Overall:"):
			st.BFactors.Overall, err = field(fields, 3)
		case strings.HasPrefix(line, "Protein:"):
			st.BFactors.Protein, err = field(fields, 3)
		case strings.HasPrefix(line, "Water:"):
			st.BFactors.Water, err = field(fields, 3)
		default:
			continue
		}
		if err != nil {
			return st, fmt.Errorf("parsing %q: %w", line, err)
		}
		found++
	}
	if found == 0 {
		return st, errors.New("no statistics found in report")
	}
	return st, nil
}

func field(fields []string, i int) (float64, error) {
	if i < 0 || i >= len(fields) {
		return 0, fmt.Errorf("missing field %d", i)
	}
	return strconv.ParseFloat(fields[i], 64)
}

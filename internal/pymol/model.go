// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pymol

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pdiddy/xtaltools/internal/fasta"
)

// ErrNoAtoms is returned when a selection matches nothing.
var ErrNoAtoms = errors.New("selection matched no atoms")

// ModelSequences loads model and returns one FASTA record per chain object.
func (e *Engine) ModelSequences(ctx context.Context, model string) ([]fasta.Record, error) {
	s := NewScript().
		Load(model).
		Marker().
		Line("print(cmd.get_fastastr('all'))")

	out, err := e.Run(ctx, s)
	if err != nil {
		return nil, err
	}
	recs, err := fasta.ParseString(strings.Join(out, "\n"))
	if err != nil {
		return nil, fmt.Errorf("parsing model sequences: %w", err)
	}
	return recs, nil
}

// CloseContacts measures polar contacts in model at or below cutoff
// Angstrom, ignoring inorganic atoms. It returns the mean contact distance;
// zero means no contact was found.
func (e *Engine) CloseContacts(ctx context.Context, model string, cutoff float64) (float64, error) {
	sel := Str("all and not inorganic")
	s := NewScript().
		Load(model).
		Marker().
		Line("print(cmd.distance('close_contacts', %s, %s, mode=2, cutoff=%s))", sel, sel, Float(cutoff))

	out, err := e.Run(ctx, s)
	if err != nil {
		return 0, err
	}
	return parseFloat(out, "close contacts")
}

// LigandBFactor returns the mean B factor of the atoms of residue name
// ligand in model.
func (e *Engine) LigandBFactor(ctx context.Context, model, ligand string) (float64, error) {
	s := NewScript().
		Load(model).
		Line("stored.b = []").
		Line("cmd.iterate(%s, 'stored.b.append(b)')", Str("resn "+ligand)).
		Marker().
		Line("print(sum(stored.b) / len(stored.b) if stored.b else 'nan')")

	out, err := e.Run(ctx, s)
	if err != nil {
		return 0, err
	}
	v, err := parseFloat(out, "ligand B factor")
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, fmt.Errorf("ligand %s: %w", ligand, ErrNoAtoms)
	}
	return v, nil
}

func parseFloat(out []string, what string) (float64, error) {
	v, ok := lastValue(out)
	if !ok {
		return 0, fmt.Errorf("%s: no output", what)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: parsing %q: %w", what, v, err)
	}
	return f, nil
}

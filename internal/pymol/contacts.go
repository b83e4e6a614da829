// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pymol

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultContactCutoff is the interface and symmetry contact distance in
// Angstrom.
const DefaultContactCutoff = 4.0

// ContactRequest describes a contact residue session.
type ContactRequest struct {
	PDBID     string
	Cutoff    float64
	OutputDir string
}

// ChainContact counts the atoms at the interface of two chains.
type ChainContact struct {
	ChainA string
	ChainB string
	Atoms  int
}

// ContactReport summarizes a contact session.
type ContactReport struct {
	Chains   []string
	Pairs    []ChainContact
	Symmetry int
	Session  string
}

// ContactSession fetches one entry and colors interface residues red and
// crystal contacts blue, then saves <pdb>_contacts.pse.
func (e *Engine) ContactSession(ctx context.Context, req ContactRequest) (ContactReport, error) {
	if req.PDBID == "" {
		return ContactReport{}, errors.New("contacts: empty PDB id")
	}
	cutoff := req.Cutoff
	if cutoff <= 0 {
		cutoff = DefaultContactCutoff
	}
	outDir := req.OutputDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return ContactReport{}, fmt.Errorf("creating output directory: %w", err)
	}
	session := filepath.Join(outDir, req.PDBID+"_contacts.pse")

	out, err := e.Run(ctx, contactScript(req.PDBID, cutoff, session))
	if err != nil {
		return ContactReport{}, err
	}
	report, err := parseContacts(out)
	if err != nil {
		return ContactReport{}, err
	}
	report.Session = session
	return report, nil
}

func contactScript(pdb string, cutoff float64, session string) *Script {
	c := Float(cutoff)
	return NewScript().
		Fetch(pdb).
		Call("hide", Str("everything")).
		Call("color", Str("white")).
		Line("pdb = %s", Str(pdb)).
		Line("chains = cmd.get_chains(pdb)").
		Line("pairs = sorted(set(tuple(sorted((a, b))) for a in chains for b in chains if a != b))").
		Marker().
		Line("print('CHAINS ' + ' '.join(chains))").
		Line("for a, b in pairs:").
		Line("    s1 = '%%s and chain %%s' %% (pdb, a)").
		Line("    s2 = '%%s and chain %%s' %% (pdb, b)").
		Line("    name = 'contacts_%%s_%%s' %% (a, b)").
		Line("    cmd.select(name, '(%%s within %s of %%s) or (%%s within %s of %%s)' %% (s1, s2, s2, s1))", c, c).
		Line("    cmd.color('red', 'byres ' + name)").
		Line("    print('PAIR %%s %%s %%d' %% (a, b, cmd.count_atoms(name)))").
		Line("cmd.symexp('sym', pdb, selection=pdb, cutoff=%s)", c).
		Line("cmd.select('sym_contacts', '%%s within %s of sym*' %% pdb)", c).
		Call("color", Str("blue"), Str("sym_contacts")).
		Line("print('SYM %%d' %% cmd.count_atoms('sym_contacts'))").
		Call("hide", Str("everything"), Str("sym*")).
		Call("show", Str("surface"), "pdb").
		Call("deselect").
		Save(session, "")
}

func parseContacts(out []string) (ContactReport, error) {
	var (
		report ContactReport
		sawSym bool
	)
	for _, line := range out {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "CHAINS":
			report.Chains = fields[1:]
		case "PAIR":
			if len(fields) != 4 {
				return ContactReport{}, fmt.Errorf("malformed contact line %q", line)
			}
			n, err := strconv.Atoi(fields[3])
			if err != nil {
				return ContactReport{}, fmt.Errorf("parsing contact count: %w", err)
			}
			report.Pairs = append(report.Pairs, ChainContact{ChainA: fields[1], ChainB: fields[2], Atoms: n})
		case "SYM":
			if len(fields) != 2 {
				return ContactReport{}, fmt.Errorf("malformed symmetry line %q", line)
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return ContactReport{}, fmt.Errorf("parsing symmetry count: %w", err)
			}
			report.Symmetry = n
			sawSym = true
		}
	}
	if !sawSym {
		return ContactReport{}, errors.New("pymol did not report symmetry contacts")
	}
	return report, nil
}
